// Package optim provides derivative-free minimizers for scalar objectives
// over real vectors.
package optim

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Func is a scalar objective. It must return a finite value everywhere,
// using a large penalty for invalid regions.
type Func func(x []float64) float64

// Result is the outcome of a minimization.
type Result struct {
	X           []float64 // best point found
	F           float64   // objective value at X
	Iterations  int
	Evaluations int
}

// Minimizer is implemented by every method in this package.
type Minimizer interface {
	Minimize(f Func, x0 []float64) (*Result, error)
}

// ErrNoVariables is returned for an empty starting point.
var ErrNoVariables = errors.New("optim: starting point has no variables")

// Settings tune the Nelder-Mead simplex search.
type Settings struct {
	Iterations   int     // fixed iteration budget
	Reflection   float64 // α
	Expansion    float64 // γ
	Contraction  float64 // ρ
	Shrink       float64 // σ
	Perturbation float64 // scale applied to one coordinate per initial vertex
	ZeroDelta    float64 // used instead of scaling when a coordinate is zero

	// Tolerance stops early once the spread between the best and worst
	// vertex values drops to or below it. Zero keeps the fixed budget.
	Tolerance float64
}

// DefaultSettings returns the standard coefficients and a budget of 100
// iterations.
func DefaultSettings() Settings {
	return Settings{
		Iterations:   100,
		Reflection:   1,
		Expansion:    2,
		Contraction:  0.5,
		Shrink:       0.5,
		Perturbation: 1.05,
		ZeroDelta:    0.00025,
	}
}

// NelderMead is a deterministic simplex minimizer with a fixed iteration
// budget.
type NelderMead struct {
	Settings Settings
}

// NewNelderMead returns a minimizer using DefaultSettings.
func NewNelderMead() *NelderMead {
	return &NelderMead{Settings: DefaultSettings()}
}

// simplex keeps n+1 vertices with their objective values.
type simplex struct {
	x [][]float64
	f []float64
}

func (s *simplex) Len() int           { return len(s.f) }
func (s *simplex) Less(i, j int) bool { return s.f[i] < s.f[j] }
func (s *simplex) Swap(i, j int) {
	s.x[i], s.x[j] = s.x[j], s.x[i]
	s.f[i], s.f[j] = s.f[j], s.f[i]
}

// Minimize searches for a minimum of f starting from x0. It never fails once
// the starting point is valid; x0 is not modified.
func (nm *NelderMead) Minimize(f Func, x0 []float64) (*Result, error) {
	n := len(x0)
	if n == 0 {
		return nil, ErrNoVariables
	}
	set := nm.Settings

	evals := 0
	eval := func(x []float64) float64 {
		evals++
		v := f(x)
		if math.IsNaN(v) {
			return math.Inf(1)
		}
		return v
	}

	s := &simplex{x: make([][]float64, n+1), f: make([]float64, n+1)}
	s.x[0] = append([]float64(nil), x0...)
	for i := 0; i < n; i++ {
		v := append([]float64(nil), x0...)
		if v[i] == 0 {
			v[i] = set.ZeroDelta
		} else {
			v[i] *= set.Perturbation
		}
		s.x[i+1] = v
	}
	for i, v := range s.x {
		s.f[i] = eval(v)
	}

	centroid := make([]float64, n)
	dir := make([]float64, n)
	xr := make([]float64, n)

	iter := 0
	for ; iter < set.Iterations; iter++ {
		sort.Stable(s)
		if set.Tolerance > 0 && s.f[n]-s.f[0] <= set.Tolerance {
			break
		}

		// centroid of every vertex but the worst
		for j := range centroid {
			centroid[j] = 0
		}
		for _, v := range s.x[:n] {
			floats.Add(centroid, v)
		}
		floats.Scale(1/float64(n), centroid)

		worst := s.x[n]
		floats.SubTo(dir, centroid, worst)
		floats.AddScaledTo(xr, centroid, set.Reflection, dir)
		fr := eval(xr)

		switch {
		case fr >= s.f[0] && fr < s.f[n-1]:
			s.x[n], s.f[n] = append([]float64(nil), xr...), fr

		case fr < s.f[0]:
			xe := make([]float64, n)
			floats.SubTo(dir, xr, centroid)
			floats.AddScaledTo(xe, centroid, set.Expansion, dir)
			if fe := eval(xe); fe < fr {
				s.x[n], s.f[n] = xe, fe
			} else {
				s.x[n], s.f[n] = append([]float64(nil), xr...), fr
			}

		default:
			xc := make([]float64, n)
			floats.SubTo(dir, worst, centroid)
			floats.AddScaledTo(xc, centroid, set.Contraction, dir)
			if fc := eval(xc); fc < s.f[n] {
				s.x[n], s.f[n] = xc, fc
				continue
			}
			best := s.x[0]
			for i := 1; i <= n; i++ {
				floats.SubTo(dir, s.x[i], best)
				floats.AddScaledTo(s.x[i], best, set.Shrink, dir)
				s.f[i] = eval(s.x[i])
			}
		}
	}

	sort.Stable(s)
	return &Result{
		X:           append([]float64(nil), s.x[0]...),
		F:           s.f[0],
		Iterations:  iter,
		Evaluations: evals,
	}, nil
}
