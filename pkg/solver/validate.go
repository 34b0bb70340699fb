package solver

import (
	"fmt"

	"github.com/chazu/armature/pkg/assembly"
)

// ValidationResult reports the static analysis of a constraint system.
// Errors block solving in practice (the solve will fail to converge or
// hit a singular system); warnings are advisory.
type ValidationResult struct {
	IsValid          bool
	Errors           []string
	Warnings         []string
	DegreesOfFreedom int
	ConstraintCount  int
}

// ValidateConstraintSystem statically analyzes an assembly without
// solving. It is pure: calling it twice on the same assembly yields
// identical results.
//
// Degrees-of-freedom accounting starts from 6 per component (3
// translational + 3 rotational; the rotational share is reserved for a
// future orientation-aware formulation even though the current solver
// acts on translation only). A Fixed constraint removes all 6 of its
// component's freedoms; every other constraint removes one effective
// scalar freedom.
func ValidateConstraintSystem(asm *assembly.Assembly) ValidationResult {
	res := ValidationResult{
		ConstraintCount: len(asm.Constraints),
	}

	if len(asm.Components) == 0 {
		res.Errors = append(res.Errors, "assembly has no components")
	}
	if len(asm.Constraints) == 0 {
		res.Warnings = append(res.Warnings, "assembly has no constraints")
	}

	fixedCount := 0
	dof := 6 * len(asm.Components)
	for _, c := range asm.Constraints {
		if !asm.HasComponent(c.ElementA) {
			res.Errors = append(res.Errors,
				fmt.Sprintf("constraint %q references missing component %q", c.ID, c.ElementA))
		}
		if c.Type.Binary() {
			if c.ElementB == "" {
				res.Errors = append(res.Errors,
					fmt.Sprintf("%s constraint %q has no second element", c.Type, c.ID))
			} else if !asm.HasComponent(c.ElementB) {
				res.Errors = append(res.Errors,
					fmt.Sprintf("constraint %q references missing component %q", c.ID, c.ElementB))
			}
		}

		if c.Type == assembly.Fixed {
			fixedCount++
			dof -= 6
		} else {
			dof--
		}
	}
	res.DegreesOfFreedom = dof

	anchored := fixedCount > 0
	if len(asm.Constraints) > 0 && !anchored {
		res.Errors = append(res.Errors,
			"unanchored: no fixed constraint pins the assembly in space")
	}
	if len(asm.Constraints) > 0 && dof <= 0 {
		res.Errors = append(res.Errors,
			fmt.Sprintf("over-constrained: %d degrees of freedom remaining", dof))
	}
	if dof > 0 && !anchored {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("possibly under-constrained: %d degrees of freedom with no anchor", dof))
	}

	res.IsValid = len(res.Errors) == 0
	return res
}
