package kernel

import (
	"fmt"

	"github.com/chazu/armature/pkg/assembly"
)

// ComponentSolid pairs an assembly component with its realized solid.
type ComponentSolid struct {
	ComponentID string
	Solid       Solid
}

// Realize places one box solid per component at its solved position.
// Components with non-positive bounding dimensions are rejected: the
// generator is expected to give every panel a real size before geometry
// is produced.
func Realize(asm *assembly.Assembly, pos assembly.PositionSet, k Kernel) ([]ComponentSolid, error) {
	solids := make([]ComponentSolid, 0, len(asm.Components))
	for _, c := range asm.Components {
		d := c.Dimensions
		if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
			return nil, fmt.Errorf("component %q has non-positive dimensions %.1fx%.1fx%.1f",
				c.ID, d.X, d.Y, d.Z)
		}
		p := pos.Get(c.ID)
		s := k.Translate(k.Box(d.X, d.Y, d.Z), p.X, p.Y, p.Z)
		solids = append(solids, ComponentSolid{ComponentID: c.ID, Solid: s})
	}
	return solids, nil
}

// RealizeMeshes produces one render mesh per component at its solved
// position.
func RealizeMeshes(asm *assembly.Assembly, pos assembly.PositionSet, k Kernel) ([]*Mesh, error) {
	solids, err := Realize(asm, pos, k)
	if err != nil {
		return nil, err
	}
	meshes := make([]*Mesh, 0, len(solids))
	for _, cs := range solids {
		m, err := k.ToMesh(cs.Solid)
		if err != nil {
			return nil, fmt.Errorf("mesh for component %q: %w", cs.ComponentID, err)
		}
		m.Component = cs.ComponentID
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// RealizeUnion produces a single solid for the whole solved assembly.
func RealizeUnion(asm *assembly.Assembly, pos assembly.PositionSet, k Kernel) (Solid, error) {
	solids, err := Realize(asm, pos, k)
	if err != nil {
		return nil, err
	}
	if len(solids) == 0 {
		return nil, fmt.Errorf("assembly %q has no components to realize", asm.Name)
	}
	combined := solids[0].Solid
	for _, cs := range solids[1:] {
		combined = k.Union(combined, cs.Solid)
	}
	return combined, nil
}
