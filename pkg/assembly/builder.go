package assembly

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/armature/pkg/geom"
)

// Builder provides a fluent API for constructing assemblies. Errors are
// accumulated and reported once by Build, so call chains stay readable:
//
//	b := assembly.NewBuilder("wardrobe")
//	b.Panel("side-left", geom.Vec3{X: 18, Y: 720, Z: 560}, oak, geom.Vec3{})
//	b.Fix("side-left")
//	b.Distance("side-left", "side-right", 564)
//	asm, err := b.Build()
type Builder struct {
	asm  *Assembly
	errs []error
}

// NewBuilder creates a builder for a named assembly. The assembly
// identifier is generated.
func NewBuilder(name string) *Builder {
	return &Builder{asm: New(uuid.NewString(), name)}
}

// Panel adds a rectangular component with the given bounding dimensions,
// material, and initial placement.
func (b *Builder) Panel(id string, dims geom.Vec3, material MaterialSpec, at geom.Vec3) *Builder {
	err := b.asm.AddComponent(&Component{
		ID:         id,
		Name:       id,
		Position:   at,
		Dimensions: dims,
		Material:   material,
	})
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Fix anchors a component at the origin.
func (b *Builder) Fix(id string) *Builder {
	return b.constraint(Fixed, id, "", nil)
}

// Distance requires an exact distance in mm between two components.
func (b *Builder) Distance(a, c string, target float64) *Builder {
	return b.constraint(Distance, a, c, &target)
}

// Coincident requires two components to share a position.
func (b *Builder) Coincident(a, c string) *Builder {
	return b.constraint(Coincident, a, c, nil)
}

// Parallel records a parallel orientation relation between two components.
func (b *Builder) Parallel(a, c string) *Builder {
	return b.constraint(Parallel, a, c, nil)
}

// Perpendicular records a perpendicular orientation relation.
func (b *Builder) Perpendicular(a, c string) *Builder {
	return b.constraint(Perpendicular, a, c, nil)
}

// Angle records a fixed-angle orientation relation in degrees.
func (b *Builder) Angle(a, c string, degrees float64) *Builder {
	return b.constraint(Angle, a, c, &degrees)
}

func (b *Builder) constraint(t ConstraintType, a, c string, target *float64) *Builder {
	if !b.asm.HasComponent(a) {
		b.errs = append(b.errs, fmt.Errorf("%s constraint references unknown component %q", t, a))
	}
	if t.Binary() && !b.asm.HasComponent(c) {
		b.errs = append(b.errs, fmt.Errorf("%s constraint references unknown component %q", t, c))
	}
	b.asm.AddConstraint(&Constraint{
		ID:       uuid.NewString(),
		Type:     t,
		ElementA: a,
		ElementB: c,
		Target:   target,
		Weight:   DefaultWeight,
	})
	return b
}

// Build returns the assembled Assembly, or the first accumulated error.
func (b *Builder) Build() (*Assembly, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("assembly %q: %w", b.asm.Name, b.errs[0])
	}
	return b.asm, nil
}
