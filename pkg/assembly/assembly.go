package assembly

import "fmt"

// Assembly is the aggregate submitted to the solver: an ordered list of
// components plus the constraints relating them. Component insertion order
// defines the degree-of-freedom ordering the solver uses for its Jacobian;
// constraint order defines the residual-vector ordering.
//
// The solver treats an Assembly as read-only for the duration of a solve,
// so a single Assembly may be shared by concurrent solve calls.
type Assembly struct {
	ID          string
	Name        string
	Components  []*Component
	Constraints []*Constraint

	index map[string]*Component // identifier -> component, kept in sync by AddComponent
}

// New creates an empty assembly.
func New(id, name string) *Assembly {
	return &Assembly{
		ID:    id,
		Name:  name,
		index: make(map[string]*Component),
	}
}

// AddComponent appends a component, rejecting duplicate identifiers.
func (a *Assembly) AddComponent(c *Component) error {
	if c.ID == "" {
		return fmt.Errorf("component must have an identifier")
	}
	if a.index == nil {
		a.index = make(map[string]*Component)
	}
	if _, exists := a.index[c.ID]; exists {
		return fmt.Errorf("duplicate component identifier %q", c.ID)
	}
	a.Components = append(a.Components, c)
	a.index[c.ID] = c
	return nil
}

// AddConstraint appends a constraint. References are not checked here;
// dangling identifiers are reported by solver validation.
func (a *Assembly) AddConstraint(c *Constraint) {
	if c.Weight == 0 {
		c.Weight = DefaultWeight
	}
	a.Constraints = append(a.Constraints, c)
}

// Component returns the component with the given identifier, or nil.
func (a *Assembly) Component(id string) *Component {
	if a.index != nil {
		return a.index[id]
	}
	// Index missing (e.g. an Assembly built by hand); fall back to a scan.
	for _, c := range a.Components {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// HasComponent reports whether a component with the given identifier exists.
func (a *Assembly) HasComponent(id string) bool {
	return a.Component(id) != nil
}

// InitialPositions returns a fresh position set seeded from each
// component's stored position. Every solve call works on its own copy.
func (a *Assembly) InitialPositions() PositionSet {
	pos := make(PositionSet, len(a.Components))
	for _, c := range a.Components {
		pos[c.ID] = c.Position
	}
	return pos
}

// ComponentCount returns the number of components.
func (a *Assembly) ComponentCount() int { return len(a.Components) }

// ConstraintCount returns the number of constraints.
func (a *Assembly) ConstraintCount() int { return len(a.Constraints) }
