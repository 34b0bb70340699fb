package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/chazu/armature/pkg/geom"
)

// pivotThreshold is the absolute pivot magnitude below which the system
// is treated as singular rather than divided through.
const pivotThreshold = 1e-10

// solveLinear solves a·x = b by Gaussian elimination with partial
// pivoting (row interchange selecting the largest-magnitude pivot in the
// active column).
//
// It returns (nil, false) — never a partial result — when the matrix is
// rectangular, any input entry is non-finite, a pivot falls below
// pivotThreshold, or elimination/back-substitution produces a non-finite
// intermediate. The inputs are not modified.
func solveLinear(a *mat.Dense, b []float64) ([]float64, bool) {
	r, c := a.Dims()
	if r != c || len(b) != r {
		return nil, false
	}
	if r == 0 {
		return []float64{}, true
	}

	// Work on copies; elimination is destructive.
	work := mat.DenseCopyOf(a)
	rhs := make([]float64, r)
	copy(rhs, b)

	for i := 0; i < r; i++ {
		if !geom.IsFinite(rhs[i]) {
			return nil, false
		}
		for j := 0; j < c; j++ {
			if !geom.IsFinite(work.At(i, j)) {
				return nil, false
			}
		}
	}

	// Forward elimination with partial pivoting.
	for k := 0; k < r; k++ {
		pivotRow := k
		pivotMag := math.Abs(work.At(k, k))
		for i := k + 1; i < r; i++ {
			if mag := math.Abs(work.At(i, k)); mag > pivotMag {
				pivotMag = mag
				pivotRow = i
			}
		}
		if pivotMag < pivotThreshold {
			return nil, false
		}
		if pivotRow != k {
			swapRows(work, k, pivotRow)
			rhs[k], rhs[pivotRow] = rhs[pivotRow], rhs[k]
		}

		pivot := work.At(k, k)
		for i := k + 1; i < r; i++ {
			factor := work.At(i, k) / pivot
			if !geom.IsFinite(factor) {
				return nil, false
			}
			for j := k; j < c; j++ {
				work.Set(i, j, work.At(i, j)-factor*work.At(k, j))
			}
			rhs[i] -= factor * rhs[k]
			if !geom.IsFinite(rhs[i]) {
				return nil, false
			}
		}
	}

	// Back-substitution, aborting on any non-finite intermediate.
	x := make([]float64, r)
	for i := r - 1; i >= 0; i-- {
		sum := rhs[i]
		for j := i + 1; j < c; j++ {
			sum -= work.At(i, j) * x[j]
		}
		x[i] = sum / work.At(i, i)
		if !geom.IsFinite(x[i]) {
			return nil, false
		}
	}
	return x, true
}

func swapRows(m *mat.Dense, a, b int) {
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		va, vb := m.At(a, j), m.At(b, j)
		m.Set(a, j, vb)
		m.Set(b, j, va)
	}
}
