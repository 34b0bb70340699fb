package solver

import (
	"math"

	"github.com/chazu/armature/pkg/assembly"
)

// residual computes the scalar error of one constraint at a candidate
// position set. Zero means satisfied.
//
// Missing referenced components never cause a failure here: they read as
// origin-positioned, and ValidateConstraintSystem is responsible for
// flagging dangling references before solving starts.
func residual(c *assembly.Constraint, pos assembly.PositionSet) float64 {
	switch c.Type {
	case assembly.Fixed:
		// Fixed components are anchored at the origin by convention; the
		// generator places the anchor's rest position there.
		return pos.Get(c.ElementA).Length()

	case assembly.Distance:
		a := pos.Get(c.ElementA)
		b := pos.Get(c.ElementB)
		return math.Abs(b.Sub(a).Length() - c.TargetOr(0))

	case assembly.Coincident:
		a := pos.Get(c.ElementA)
		b := pos.Get(c.ElementB)
		return b.Sub(a).Length()

	default:
		// Parallel, Perpendicular, Angle act on orientation only and
		// contribute no positional residual in the translation-only model.
		return 0
	}
}

// residuals evaluates every constraint of the assembly in declaration
// order, which fixes the residual-vector ordering used by the Jacobian.
func residuals(asm *assembly.Assembly, pos assembly.PositionSet) []float64 {
	out := make([]float64, len(asm.Constraints))
	for i, c := range asm.Constraints {
		out[i] = residual(c, pos)
	}
	return out
}

// guardedNorm computes the L2 norm of a residual vector, excluding
// non-finite entries from the sum so a single NaN does not poison the
// whole norm. The index of the first non-finite entry is returned so the
// caller can flag solver failure with the offending constraint.
func guardedNorm(r []float64) (norm float64, badIndex int) {
	badIndex = -1
	sum := 0.0
	for i, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if badIndex < 0 {
				badIndex = i
			}
			continue
		}
		sum += v * v
	}
	return math.Sqrt(sum), badIndex
}
