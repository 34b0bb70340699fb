package assembly

import "github.com/chazu/armature/pkg/geom"

// PositionSet maps component identifiers to candidate positions. It is the
// mutable state that evolves across solver iterations; each solve call owns
// its own set and returns it to the caller when done.
type PositionSet map[string]geom.Vec3

// Get returns the position for id. A missing entry reads as the origin,
// matching the solver's convention for unplaced or dangling components.
func (p PositionSet) Get(id string) geom.Vec3 {
	return p[id]
}

// Clone returns an independent copy of the set.
func (p PositionSet) Clone() PositionSet {
	out := make(PositionSet, len(p))
	for id, v := range p {
		out[id] = v
	}
	return out
}
