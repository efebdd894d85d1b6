// Package linalg solves the small dense linear systems produced by the
// beam finite element model.
package linalg

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when elimination meets an exactly zero pivot.
var ErrSingular = errors.New("linalg: matrix is singular")

// Solve returns x such that A·x = b, using Gaussian elimination with partial
// pivoting followed by back substitution.
//
// A and b are copied before elimination, so the caller's matrix and vector
// are left untouched and the same system can be solved repeatedly.
func Solve(a mat.Matrix, b []float64) ([]float64, error) {
	n, c := a.Dims()
	if n != c {
		return nil, fmt.Errorf("linalg: non-square %dx%d matrix", n, c)
	}
	if len(b) != n {
		return nil, fmt.Errorf("linalg: right-hand side has length %d, want %d", len(b), n)
	}
	if n == 0 {
		return []float64{}, nil
	}

	m := mat.DenseCopyOf(a)
	rhs := make([]float64, n)
	copy(rhs, b)

	for k := 0; k < n; k++ {
		// Pick the row with the largest magnitude in column k
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(m.At(i, k)) > math.Abs(m.At(p, k)) {
				p = i
			}
		}
		if m.At(p, k) == 0 {
			return nil, fmt.Errorf("%w: zero pivot in column %d", ErrSingular, k)
		}
		if p != k {
			rk, rp := m.RawRowView(k), m.RawRowView(p)
			for j := range rk {
				rk[j], rp[j] = rp[j], rk[j]
			}
			rhs[k], rhs[p] = rhs[p], rhs[k]
		}

		pivot := m.RawRowView(k)
		for i := k + 1; i < n; i++ {
			row := m.RawRowView(i)
			factor := row[k] / pivot[k]
			if factor == 0 {
				continue
			}
			for j := k; j < n; j++ {
				row[j] -= factor * pivot[j]
			}
			rhs[i] -= factor * rhs[k]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		row := m.RawRowView(i)
		sum := rhs[i]
		for j := i + 1; j < n; j++ {
			sum -= row[j] * x[j]
		}
		x[i] = sum / row[i]
	}
	return x, nil
}

// Residual returns the Euclidean norm ‖A·x − b‖.
func Residual(a mat.Matrix, x, b []float64) float64 {
	n, _ := a.Dims()
	if n == 0 {
		return 0
	}
	var r mat.VecDense
	r.MulVec(a, mat.NewVecDense(len(x), x))
	r.SubVec(&r, mat.NewVecDense(n, b))
	return mat.Norm(&r, 2)
}
