package solver

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/geom"
)

func TestBuildJacobianDimensions(t *testing.T) {
	asm := anchoredPair(t, 100)
	pos := asm.InitialPositions()
	base := residuals(asm, pos)

	jac, err := buildJacobian(asm, pos, base, false)
	if err != nil {
		t.Fatalf("buildJacobian: %v", err)
	}
	r, c := jac.Dims()
	if r != 2 || c != 6 {
		t.Errorf("dims = %dx%d, want 2x6 (constraints x 3*components)", r, c)
	}
}

func TestBuildJacobianDistanceDerivatives(t *testing.T) {
	// b sits 100mm along x from a with a 50mm target, so the residual is
	// ||b-a|| - 50 and the analytic gradient is the +-x unit vector.
	asm := assembly.New("asm-jac", "jac")
	mustAdd(t, asm, &assembly.Component{ID: "a"})
	mustAdd(t, asm, &assembly.Component{ID: "b", Position: geom.Vec3{X: 100}})
	asm.AddConstraint(&assembly.Constraint{
		ID: "dist-ab", Type: assembly.Distance, ElementA: "a", ElementB: "b", Target: fp(50),
	})

	pos := asm.InitialPositions()
	base := residuals(asm, pos)
	jac, err := buildJacobian(asm, pos, base, false)
	if err != nil {
		t.Fatalf("buildJacobian: %v", err)
	}

	// Columns: ax ay az bx by bz. Forward differences carry O(h) error.
	wants := []float64{-1, 0, 0, 1, 0, 0}
	for j, want := range wants {
		if got := jac.At(0, j); math.Abs(got-want) > 1e-2 {
			t.Errorf("d(residual)/d(col %d) = %v, want %v", j, got, want)
		}
	}
}

func TestBuildJacobianRejectsNonFiniteBase(t *testing.T) {
	asm := anchorOnly(t)
	pos := assembly.PositionSet{"a": {X: math.Inf(1)}}
	base := residuals(asm, pos)

	if _, err := buildJacobian(asm, pos, base, false); err == nil {
		t.Fatal("expected an error for a non-finite base residual")
	} else if !strings.Contains(err.Error(), "fix-a") {
		t.Errorf("error %q should name the offending constraint", err)
	}
}

func TestBuildJacobianParallelMatchesSequential(t *testing.T) {
	asm := anchoredPair(t, 100)
	pos := assembly.PositionSet{"a": {X: 1, Y: -2, Z: 0.5}, "b": {X: 40, Y: 13, Z: -7}}
	base := residuals(asm, pos)

	seq, err := buildJacobian(asm, pos, base, false)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := buildJacobian(asm, pos, base, true)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	r, c := seq.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if seq.At(i, j) != par.At(i, j) {
				t.Fatalf("entry (%d,%d) differs: sequential %v, parallel %v",
					i, j, seq.At(i, j), par.At(i, j))
			}
		}
	}
}
