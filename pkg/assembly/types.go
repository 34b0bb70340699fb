// Package assembly defines the component and constraint data structures
// for armature. An Assembly is the unit of work submitted to the solver:
// a set of rigid panels plus the declarative geometric relations between
// them.
package assembly

import (
	"fmt"

	"github.com/chazu/armature/pkg/geom"
)

// ConstraintType enumerates the geometric relations the solver understands.
type ConstraintType int

const (
	Fixed         ConstraintType = iota // anchor a component at the origin
	Distance                            // exact distance between two components
	Coincident                          // two components at the same position
	Parallel                            // orientation: parallel (no positional residual)
	Perpendicular                       // orientation: perpendicular (no positional residual)
	Angle                               // orientation: fixed angle (no positional residual)
)

func (t ConstraintType) String() string {
	switch t {
	case Fixed:
		return "fixed"
	case Distance:
		return "distance"
	case Coincident:
		return "coincident"
	case Parallel:
		return "parallel"
	case Perpendicular:
		return "perpendicular"
	case Angle:
		return "angle"
	default:
		return "unknown"
	}
}

// Orientation reports whether the constraint acts on orientation rather
// than translation. Orientation constraints are accepted and validated but
// contribute no positional residual in the current translation-only model.
func (t ConstraintType) Orientation() bool {
	return t == Parallel || t == Perpendicular || t == Angle
}

// Binary reports whether the constraint relates two components.
func (t ConstraintType) Binary() bool {
	return t != Fixed
}

// ParseConstraintType converts a string (as found in YAML documents and
// DSL sources) to a ConstraintType.
func ParseConstraintType(s string) (ConstraintType, error) {
	switch s {
	case "fixed":
		return Fixed, nil
	case "distance":
		return Distance, nil
	case "coincident":
		return Coincident, nil
	case "parallel":
		return Parallel, nil
	case "perpendicular":
		return Perpendicular, nil
	case "angle":
		return Angle, nil
	}
	return 0, fmt.Errorf("unknown constraint type %q", s)
}

// MaterialSpec describes the intended material of a panel. Advisory only:
// the solver never reads it, downstream costing and cut-layout consumers do.
type MaterialSpec struct {
	Species   string  `json:"species,omitempty" yaml:"species,omitempty"`     // e.g. "birch-ply", "white-oak"
	Thickness float64 `json:"thickness,omitempty" yaml:"thickness,omitempty"` // nominal thickness in mm
	Grade     string  `json:"grade,omitempty" yaml:"grade,omitempty"`
	Notes     string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Component is one rigid physical part of an assembly (a panel, shelf,
// back board). Position holds the generator's initial placement; the
// solver reads it as the starting guess and returns solved positions in a
// separate position set, never writing back onto the component.
type Component struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name,omitempty" yaml:"name,omitempty"`
	Position   geom.Vec3    `json:"position" yaml:"position"`
	Dimensions geom.Vec3    `json:"dimensions" yaml:"dimensions"` // bounding width x height x depth in mm
	Material   MaterialSpec `json:"material,omitempty" yaml:"material,omitempty"`
}

// DefaultWeight is the solver weight assigned to constraints that do not
// specify one. Reserved for a future weighted least-squares formulation.
const DefaultWeight = 1.0

// Constraint is one declarative relation between components. Components
// are referenced by identifier, not by pointer, so constraints can be
// serialized independently and no ownership cycle forms between the two.
type Constraint struct {
	ID       string         `json:"id" yaml:"id"`
	Type     ConstraintType `json:"type" yaml:"type"`
	ElementA string         `json:"element_a" yaml:"element_a"`                     // required
	ElementB string         `json:"element_b,omitempty" yaml:"element_b,omitempty"` // required for binary relations
	Target   *float64       `json:"target,omitempty" yaml:"target,omitempty"`       // e.g. desired distance in mm
	Weight   float64        `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// TargetOr returns the constraint's target value, or def when none is set.
func (c *Constraint) TargetOr(def float64) float64 {
	if c.Target == nil {
		return def
	}
	return *c.Target
}
