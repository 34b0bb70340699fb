// Command armature validates and solves a furniture assembly described in
// a YAML document or an armature Lisp source file.
//
// Usage:
//
//	armature [flags] <assembly.yaml|assembly.lisp>
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chazu/armature/logger"
	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/engine"
	"github.com/chazu/armature/pkg/solver"
)

func main() {
	tolerance := flag.Float64("tolerance", solver.DefaultTolerance, "convergence tolerance (residual L2 norm)")
	maxIter := flag.Int("max-iterations", solver.DefaultMaxIterations, "iteration budget")
	verbose := flag.Bool("v", false, "per-iteration solver tracing")
	parallel := flag.Bool("parallel", false, "build Jacobian columns concurrently")
	flag.Parse()

	if *verbose {
		logger.Set(logger.Logger().Level(zerolog.DebugLevel))
	}
	log := logger.Logger()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: armature [flags] <assembly.yaml|assembly.lisp>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	asm, err := loadAssembly(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to load assembly")
		os.Exit(2)
	}
	log.Info().Str("assembly", asm.Name).
		Int("components", asm.ComponentCount()).
		Int("constraints", asm.ConstraintCount()).
		Msg("loaded assembly")

	validation := solver.ValidateConstraintSystem(asm)
	for _, w := range validation.Warnings {
		log.Warn().Msg(w)
	}
	for _, e := range validation.Errors {
		log.Error().Msg(e)
	}
	if !validation.IsValid {
		log.Error().Int("dof", validation.DegreesOfFreedom).Msg("constraint system is invalid")
		os.Exit(2)
	}
	log.Info().Int("dof", validation.DegreesOfFreedom).Msg("constraint system is valid")

	opts := solver.Options{
		Tolerance:     *tolerance,
		MaxIterations: *maxIter,
		Verbose:       *verbose,
		Parallel:      *parallel,
	}
	result := solver.Solve(asm, nil, opts)

	log.Info().
		Bool("converged", result.Converged).
		Int("iterations", result.Iterations).
		Float64("residual", result.ResidualNorm).
		Dur("elapsed", result.Elapsed).
		Msg(result.Message)

	for _, c := range asm.Components {
		p := result.Positions.Get(c.ID)
		fmt.Printf("%-24s (%10.3f, %10.3f, %10.3f)\n", c.ID, p.X, p.Y, p.Z)
	}

	unsatisfied := 0
	for _, check := range solver.CheckConstraints(asm, result.Positions, *tolerance) {
		if !check.Satisfied {
			unsatisfied++
			log.Warn().Str("constraint", check.ConstraintID).Msg(check.Message)
		}
	}
	if unsatisfied > 0 {
		log.Warn().Int("unsatisfied", unsatisfied).Msg("some constraints remain unsatisfied")
	}

	if !result.Success {
		os.Exit(1)
	}
}

// loadAssembly reads an assembly from disk, dispatching on file extension:
// Lisp sources go through the DSL engine, everything else is parsed as a
// YAML document.
func loadAssembly(path string) (*assembly.Assembly, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lisp", ".lsp", ".arm":
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		asm, evalErrs, err := engine.NewEngine().Evaluate(string(source))
		if err != nil {
			return nil, err
		}
		if len(evalErrs) > 0 {
			return nil, fmt.Errorf("evaluating %s: %s", path, evalErrs[0])
		}
		return asm, nil
	default:
		return assembly.LoadDocument(path)
	}
}
