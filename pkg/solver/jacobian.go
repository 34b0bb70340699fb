package solver

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/geom"
)

// jacobianStep is the forward-difference step size in length units (mm).
const jacobianStep = 1e-3

// buildJacobian constructs the dense (numConstraints x 3*numComponents)
// matrix of partial derivatives of each constraint residual with respect
// to each positional coordinate, by forward finite differences.
//
// Columns iterate components in assembly order, x/y/z within each
// component; rows follow constraint declaration order. base must be the
// residual vector already evaluated at pos.
//
// Any non-finite residual or derivative aborts construction with an error
// naming the offending component and constraint. Propagating corrupted
// numbers into the linear solve is the most dangerous failure mode in
// this subsystem, so it is fatal here, not recoverable.
func buildJacobian(asm *assembly.Assembly, pos assembly.PositionSet, base []float64, parallel bool) (*mat.Dense, error) {
	m := len(asm.Constraints)
	n := 3 * len(asm.Components)
	jac := mat.NewDense(m, n, nil)

	for i, v := range base {
		if !geom.IsFinite(v) {
			return nil, fmt.Errorf("residual of constraint %q is not finite", asm.Constraints[i].ID)
		}
	}

	// Each column perturbs a single coordinate, so columns are independent
	// of one another and may be filled concurrently.
	if parallel {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for j := 0; j < n; j++ {
			g.Go(func() error {
				return fillColumn(asm, pos, base, jac, j)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return jac, nil
	}

	for j := 0; j < n; j++ {
		if err := fillColumn(asm, pos, base, jac, j); err != nil {
			return nil, err
		}
	}
	return jac, nil
}

// fillColumn perturbs coordinate j by jacobianStep, re-evaluates every
// constraint, and writes the forward-difference quotients into column j.
func fillColumn(asm *assembly.Assembly, pos assembly.PositionSet, base []float64, jac *mat.Dense, j int) error {
	comp := asm.Components[j/3]
	axis := geom.Axis(j % 3)

	perturbed := pos.Clone()
	p := perturbed.Get(comp.ID)
	perturbed[comp.ID] = p.WithComponent(axis, p.Component(axis)+jacobianStep)

	for i, c := range asm.Constraints {
		r := residual(c, perturbed)
		if !geom.IsFinite(r) {
			return fmt.Errorf("perturbing %s of component %q made residual of constraint %q non-finite",
				axis, comp.ID, c.ID)
		}
		d := (r - base[i]) / jacobianStep
		if !geom.IsFinite(d) {
			return fmt.Errorf("derivative of constraint %q with respect to %s of component %q is not finite",
				c.ID, axis, comp.ID)
		}
		jac.Set(i, j, d)
	}
	return nil
}
