package assembly

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chazu/armature/pkg/geom"
)

// Document is the YAML form of an assembly as emitted by external
// generators. Constraint types are spelled out as strings so documents
// stay hand-editable.
type Document struct {
	Assembly AssemblyDoc `yaml:"assembly"`
}

// AssemblyDoc mirrors Assembly for serialization.
type AssemblyDoc struct {
	ID          string          `yaml:"id,omitempty"`
	Name        string          `yaml:"name"`
	Components  []ComponentDoc  `yaml:"components"`
	Constraints []ConstraintDoc `yaml:"constraints"`
}

// ComponentDoc mirrors Component for serialization.
type ComponentDoc struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name,omitempty"`
	Position   geom.Vec3    `yaml:"position,omitempty"`
	Dimensions geom.Vec3    `yaml:"dimensions,omitempty"`
	Material   MaterialSpec `yaml:"material,omitempty"`
}

// ConstraintDoc mirrors Constraint for serialization.
type ConstraintDoc struct {
	ID     string   `yaml:"id,omitempty"`
	Type   string   `yaml:"type"`
	A      string   `yaml:"a"`
	B      string   `yaml:"b,omitempty"`
	Target *float64 `yaml:"target,omitempty"`
	Weight *float64 `yaml:"weight,omitempty"`
}

// ParseDocument decodes a YAML assembly document and converts it to an
// Assembly. Duplicate component identifiers and unknown constraint types
// are errors; dangling constraint references are left for solver
// validation to report.
func ParseDocument(data []byte) (*Assembly, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse assembly document: %w", err)
	}
	return doc.Assembly.ToAssembly()
}

// LoadDocument reads and parses a YAML assembly document from disk.
func LoadDocument(path string) (*Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load assembly document: %w", err)
	}
	return ParseDocument(data)
}

// ToAssembly converts the serialized form into an Assembly.
func (d AssemblyDoc) ToAssembly() (*Assembly, error) {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	asm := New(id, d.Name)

	for i, cd := range d.Components {
		if cd.ID == "" {
			return nil, fmt.Errorf("component %d has no identifier", i)
		}
		name := cd.Name
		if name == "" {
			name = cd.ID
		}
		err := asm.AddComponent(&Component{
			ID:         cd.ID,
			Name:       name,
			Position:   cd.Position,
			Dimensions: cd.Dimensions,
			Material:   cd.Material,
		})
		if err != nil {
			return nil, err
		}
	}

	for i, cd := range d.Constraints {
		t, err := ParseConstraintType(cd.Type)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		cid := cd.ID
		if cid == "" {
			cid = uuid.NewString()
		}
		weight := DefaultWeight
		if cd.Weight != nil {
			weight = *cd.Weight
		}
		asm.AddConstraint(&Constraint{
			ID:       cid,
			Type:     t,
			ElementA: cd.A,
			ElementB: cd.B,
			Target:   cd.Target,
			Weight:   weight,
		})
	}

	return asm, nil
}
