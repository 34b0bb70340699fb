package solver

import (
	"fmt"

	"github.com/chazu/armature/pkg/assembly"
)

// ConstraintCheck reports the post-solve satisfaction of one constraint.
type ConstraintCheck struct {
	ConstraintID string
	Type         assembly.ConstraintType
	Satisfied    bool
	Error        float64
	Message      string // empty when satisfied
}

// CheckConstraints audits a position assignment against every constraint
// of the assembly, using the same residual model and tolerance as the
// solve itself. tolerance <= 0 means DefaultTolerance.
func CheckConstraints(asm *assembly.Assembly, pos assembly.PositionSet, tolerance float64) []ConstraintCheck {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	checks := make([]ConstraintCheck, 0, len(asm.Constraints))
	for _, c := range asm.Constraints {
		e := residual(c, pos)
		check := ConstraintCheck{
			ConstraintID: c.ID,
			Type:         c.Type,
			Satisfied:    e <= tolerance,
			Error:        e,
		}
		if !check.Satisfied {
			check.Message = fmt.Sprintf("%s constraint error %.6g exceeds tolerance %.6g",
				c.Type, e, tolerance)
		}
		checks = append(checks, check)
	}
	return checks
}
