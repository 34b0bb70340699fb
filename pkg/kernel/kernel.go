// Package kernel turns solved assemblies into geometry for downstream
// consumers (rendering, cut-layout preview). The Kernel interface hides
// the solid-modeling backend so it can be swapped without touching the
// rest of the system; pkg/kernel/sdfx provides the default backend.
//
// The constraint solver never imports this package: it consumes the
// solver's output positions, it does not feed back into solving.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates a rectangular solid with its minimum corner at the origin.
	Box(x, y, z float64) Solid

	// Union returns the union of two solids.
	Union(a, b Solid) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh converts a solid to a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
