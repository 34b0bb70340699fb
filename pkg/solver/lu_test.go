package solver

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSolveLinearKnownSystems(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		n    int
		b    []float64
		want []float64
	}{
		{
			"identity", []float64{1, 0, 0, 1}, 2,
			[]float64{3, -7}, []float64{3, -7},
		},
		{
			"dense 2x2", []float64{2, 1, 1, 3}, 2,
			[]float64{3, 5}, []float64{0.8, 1.4},
		},
		{
			// Zero leading pivot; only solvable with row interchange.
			"needs pivoting", []float64{0, 1, 0, 1, 0, 0, 0, 0, 2}, 3,
			[]float64{2, 3, 4}, []float64{3, 2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mat.NewDense(tt.n, tt.n, tt.a)
			x, ok := solveLinear(a, tt.b)
			if !ok {
				t.Fatal("expected a solution")
			}
			for i := range tt.want {
				if math.Abs(x[i]-tt.want[i]) > 1e-9 {
					t.Errorf("x[%d] = %.12f, want %.12f", i, x[i], tt.want[i])
				}
			}
		})
	}
}

func TestSolveLinearNoSolution(t *testing.T) {
	tests := []struct {
		name string
		a    *mat.Dense
		b    []float64
	}{
		{"singular", mat.NewDense(2, 2, []float64{1, 2, 2, 4}), []float64{1, 1}},
		{"all zero", mat.NewDense(2, 2, nil), []float64{1, 1}},
		{"nan in matrix", mat.NewDense(2, 2, []float64{1, math.NaN(), 0, 1}), []float64{1, 1}},
		{"inf in matrix", mat.NewDense(2, 2, []float64{1, 0, math.Inf(1), 1}), []float64{1, 1}},
		{"nan in rhs", mat.NewDense(2, 2, []float64{1, 0, 0, 1}), []float64{math.NaN(), 1}},
		{"rectangular", mat.NewDense(2, 3, nil), []float64{1, 1}},
		{"length mismatch", mat.NewDense(2, 2, []float64{1, 0, 0, 1}), []float64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, ok := solveLinear(tt.a, tt.b)
			if ok {
				t.Fatalf("expected no solution, got %v", x)
			}
			if x != nil {
				t.Errorf("failed solve must not return a partial result, got %v", x)
			}
		})
	}
}

func TestSolveLinearEmptySystem(t *testing.T) {
	x, ok := solveLinear(&mat.Dense{}, nil)
	if !ok {
		t.Fatal("0x0 system should succeed trivially")
	}
	if len(x) != 0 {
		t.Errorf("expected empty solution, got %v", x)
	}
}

func TestSolveLinearLeavesInputsIntact(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{0, 1, 2, 0}) // forces a row swap
	b := []float64{5, 6}

	if _, ok := solveLinear(a, b); !ok {
		t.Fatal("expected a solution")
	}

	wantA := []float64{0, 1, 2, 0}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if a.At(i, j) != wantA[i*2+j] {
				t.Errorf("a[%d,%d] modified: %v", i, j, a.At(i, j))
			}
		}
	}
	if b[0] != 5 || b[1] != 6 {
		t.Errorf("rhs modified: %v", b)
	}
}

func TestSolveLinearResidual(t *testing.T) {
	// Verify a*x = b for a larger nonsymmetric system.
	vals := []float64{
		4, -2, 1, 0,
		3, 6, -4, 2,
		0, 1, 5, -1,
		2, 0, -3, 7,
	}
	a := mat.NewDense(4, 4, vals)
	b := []float64{1, -3, 2, 0}

	x, ok := solveLinear(a, b)
	if !ok {
		t.Fatal("expected a solution")
	}
	for i := 0; i < 4; i++ {
		sum := 0.0
		for j := 0; j < 4; j++ {
			sum += a.At(i, j) * x[j]
		}
		if math.Abs(sum-b[i]) > 1e-9 {
			t.Errorf("row %d: a*x = %.12f, want %.12f", i, sum, b[i])
		}
	}
}
