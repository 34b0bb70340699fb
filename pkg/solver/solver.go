package solver

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/chazu/armature/logger"
	"github.com/chazu/armature/pkg/assembly"
)

// Default solve parameters.
const (
	DefaultTolerance     = 1e-3
	DefaultMaxIterations = 100
)

// normalDamping is the Levenberg-style diagonal shift added to the normal
// matrix JᵀJ. The Jacobian is generally rectangular (one row per
// constraint, three columns per component), so the Newton step is solved
// through the normal equations; the shift keeps the system nonsingular
// for under- and over-determined assemblies while staying far above
// pivotThreshold.
const normalDamping = 1e-8

// Options controls one solve call.
type Options struct {
	Tolerance     float64 // residual L2 norm below which the solve converges
	MaxIterations int     // hard iteration budget
	Verbose       bool    // per-iteration tracing through the package logger
	Parallel      bool    // build Jacobian columns concurrently
}

// DefaultOptions returns the standard solver settings.
func DefaultOptions() Options {
	return Options{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Result is the outcome of one solve call.
type Result struct {
	Success          bool                   // solve completed without numerical failure
	Positions        assembly.PositionSet   // final (best-effort on failure) positions
	Iterations       int                    // Newton iterations performed, never above MaxIterations
	ResidualNorm     float64                // final guarded L2 residual norm
	Converged        bool                   // residual norm fell below tolerance
	ConstraintErrors map[string]float64     // constraint id -> final residual
	Elapsed          time.Duration          // wall-clock solve time
	Message          string                 // human-readable status
}

// solveState tracks the orchestrator's progress through the Newton loop.
type solveState int

const (
	stateIterating solveState = iota
	stateConverged
	stateExhausted
	stateDegenerate
)

// Solve runs the Newton-Raphson loop on the assembly's constraint system.
//
// initial may be nil or incomplete; missing entries fall back to each
// component's stored position (the origin for unplaced components). The
// assembly itself is never mutated: solved positions are returned in the
// Result, and all mutable state is local to this call, so independent
// solves may share one Assembly concurrently.
//
// Failure modes never panic and never escape as corrupted numbers: a
// singular system or a non-finite residual/derivative ends the solve with
// Success=false and a message naming the offender, and running out of
// iterations reports Converged=false with the best-effort positions.
func Solve(asm *assembly.Assembly, initial assembly.PositionSet, opts Options) Result {
	start := time.Now()
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	log := logger.Logger().With().Str("assembly", asm.Name).Logger()

	// An empty assembly is a degenerate input, not an error: there is
	// nothing to place, so the empty position map is the correct answer.
	if len(asm.Components) == 0 {
		return Result{
			Success:          true,
			Converged:        true,
			Positions:        assembly.PositionSet{},
			ConstraintErrors: map[string]float64{},
			Elapsed:          time.Since(start),
			Message:          "empty assembly: nothing to solve",
		}
	}

	pos := asm.InitialPositions()
	for id := range pos {
		if p, ok := initial[id]; ok {
			pos[id] = p
		}
	}

	state := stateIterating
	message := ""
	norm := 0.0
	iterations := 0

	for it := 0; it < opts.MaxIterations; it++ {
		r := residuals(asm, pos)
		var bad int
		norm, bad = guardedNorm(r)
		if bad >= 0 {
			state = stateDegenerate
			message = fmt.Sprintf("residual of constraint %q is not finite at iteration %d",
				asm.Constraints[bad].ID, it)
			break
		}
		if opts.Verbose {
			log.Debug().Int("iteration", it).Float64("residual", norm).Msg("solver step")
		}
		if norm < opts.Tolerance {
			state = stateConverged
			break
		}

		jac, err := buildJacobian(asm, pos, r, opts.Parallel)
		if err != nil {
			state = stateDegenerate
			message = fmt.Sprintf("jacobian failed at iteration %d: %v", it, err)
			break
		}

		step, ok := newtonStep(jac, r)
		if !ok {
			state = stateDegenerate
			message = fmt.Sprintf("singular or ill-conditioned system at iteration %d", it)
			break
		}

		// Apply the step in the same component/axis ordering the Jacobian
		// columns were built in.
		for ci, comp := range asm.Components {
			p := pos[comp.ID]
			p.X += step[3*ci]
			p.Y += step[3*ci+1]
			p.Z += step[3*ci+2]
			pos[comp.ID] = p
		}
		iterations = it + 1
	}

	if state == stateIterating {
		state = stateExhausted
	}

	// Final diagnostics are recomputed regardless of outcome so callers
	// can always see which constraints remain unsatisfied.
	finalErrs := make(map[string]float64, len(asm.Constraints))
	final := residuals(asm, pos)
	for i, c := range asm.Constraints {
		finalErrs[c.ID] = final[i]
	}
	norm, _ = guardedNorm(final)

	res := Result{
		Positions:        pos,
		Iterations:       iterations,
		ResidualNorm:     norm,
		ConstraintErrors: finalErrs,
		Elapsed:          time.Since(start),
	}

	switch state {
	case stateConverged:
		res.Success = true
		res.Converged = true
		res.Message = fmt.Sprintf("converged after %d iterations (residual %.6g)", iterations, norm)
	case stateExhausted:
		res.Message = fmt.Sprintf("did not converge within %d iterations (residual %.6g)",
			opts.MaxIterations, norm)
	case stateDegenerate:
		res.Message = message
	}
	if opts.Verbose {
		log.Info().Bool("converged", res.Converged).Int("iterations", res.Iterations).
			Float64("residual", res.ResidualNorm).Msg(res.Message)
	}
	return res
}

// newtonStep solves for the position update Δx from the rectangular
// Jacobian via damped normal equations: (JᵀJ + λI)Δx = -Jᵀr. The square
// system goes through Gaussian elimination with partial pivoting.
func newtonStep(jac *mat.Dense, r []float64) ([]float64, bool) {
	_, n := jac.Dims()

	var normal mat.Dense
	normal.Mul(jac.T(), jac)
	for i := 0; i < n; i++ {
		normal.Set(i, i, normal.At(i, i)+normalDamping)
	}

	var rhs mat.VecDense
	rhs.MulVec(jac.T(), mat.NewVecDense(len(r), r))
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		b[i] = -rhs.AtVec(i)
	}

	return solveLinear(&normal, b)
}
