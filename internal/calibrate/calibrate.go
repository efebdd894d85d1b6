// Package calibrate solves the inverse problem: given deflections measured
// on a loaded batten, find the per-segment stiffness that reproduces them.
package calibrate

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/gobatten/internal/fem"
	"github.com/alexiusacademia/gobatten/internal/optim"
	"gonum.org/v1/gonum/floats"
)

const (
	// Gravity converts the test weight to newtons.
	Gravity = 9.81

	// Penalty is returned by the objective for non-positive stiffness.
	Penalty = 1e10

	// FallbackDeflection (m) replaces a missing or non-positive mid-span
	// reading in the initial guess.
	FallbackDeflection = 0.01
)

// ErrSegmentCount is returned for segment counts other than 2, 3 or 4.
var ErrSegmentCount = errors.New("calibrate: segment count must be 2, 3 or 4")

// Problem is one calibration request. Deflections are read at quarter, half
// and three-quarter span; a single reading is taken as mid-span.
type Problem struct {
	WeightKg      float64   `json:"weight_kg"`
	LengthMm      float64   `json:"length_mm"`
	DeflectionsMm []float64 `json:"deflections_mm"`
	Segments      int       `json:"segments"`
}

// Result is the calibrated stiffness distribution.
type Result struct {
	Stiffness    []float64 `json:"stiffness_nm2"`     // EI per segment
	Average      float64   `json:"average_nm2"`       // mean of Stiffness
	Residual     float64   `json:"residual_m2"`       // sum of squared deflection errors
	Positions    []float64 `json:"positions"`         // span fractions compared
	SimulatedMm  []float64 `json:"simulated_mm"`      // model deflections at Positions
	InitialGuess float64   `json:"initial_guess_nm2"` // uniform starting EI
	Iterations   int       `json:"iterations"`
	Evaluations  int       `json:"evaluations"`
}

// Option configures a calibration run.
type Option func(*config)

type config struct {
	minimizer optim.Minimizer
}

// WithMinimizer replaces the default fixed-budget Nelder-Mead search.
func WithMinimizer(m optim.Minimizer) Option {
	return func(c *config) {
		c.minimizer = m
	}
}

// WithIterations sets the iteration budget of the default search.
func WithIterations(n int) Option {
	return func(c *config) {
		nm := optim.NewNelderMead()
		nm.Settings.Iterations = n
		c.minimizer = nm
	}
}

// Positions returns the span fractions of the readings.
func (p Problem) Positions() ([]float64, error) {
	switch len(p.DeflectionsMm) {
	case 1:
		return []float64{0.5}, nil
	case 3:
		return []float64{0.25, 0.5, 0.75}, nil
	default:
		return nil, fmt.Errorf("calibrate: need 1 or 3 deflection readings, got %d", len(p.DeflectionsMm))
	}
}

// Validate rejects malformed requests before they reach the solver.
func (p Problem) Validate() error {
	if p.Segments < 2 || p.Segments > 4 {
		return fmt.Errorf("%w: got %d", ErrSegmentCount, p.Segments)
	}
	if !(p.WeightKg > 0) || math.IsInf(p.WeightKg, 0) {
		return fmt.Errorf("calibrate: weight must be positive, got %g kg", p.WeightKg)
	}
	if !(p.LengthMm > 0) || math.IsInf(p.LengthMm, 0) {
		return fmt.Errorf("calibrate: length must be positive, got %g mm", p.LengthMm)
	}
	for i, d := range p.DeflectionsMm {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("calibrate: deflection %d is not a number", i+1)
		}
	}
	_, err := p.Positions()
	return err
}

type reading struct {
	pos float64
	v   float64 // m
}

// comparable pairs each reading with a model query point; readings the mesh
// does not report are dropped.
func (p Problem) comparable() ([]reading, error) {
	positions, err := p.Positions()
	if err != nil {
		return nil, err
	}
	reported := fem.NewMesh(p.Segments, 1).QueryPoints()
	var out []reading
	for i, pos := range positions {
		for _, q := range reported {
			if q == pos {
				out = append(out, reading{pos: pos, v: p.DeflectionsMm[i] / 1000})
				break
			}
		}
	}
	return out, nil
}

// InitialGuess returns the uniform EI (N·m²) from the simply supported
// point load formula EI = P·L³ / (48·δ) using the mid-span reading.
func (p Problem) InitialGuess() float64 {
	load := p.WeightKg * Gravity
	length := p.LengthMm / 1000
	mid := 0.0
	if n := len(p.DeflectionsMm); n > 0 {
		mid = p.DeflectionsMm[n/2] / 1000
	}
	if mid <= 0 {
		mid = FallbackDeflection
	}
	return load * length * length * length / (48 * mid)
}

// Objective returns the squared error between simulated and measured
// deflections. Non-positive stiffness scores Penalty without solving.
func (p Problem) Objective() (optim.Func, error) {
	readings, err := p.comparable()
	if err != nil {
		return nil, err
	}
	load := p.WeightKg * Gravity
	length := p.LengthMm / 1000

	return func(ei []float64) float64 {
		for _, v := range ei {
			if !(v > 0) {
				return Penalty
			}
		}
		sol, err := fem.Solve(fem.Model{Stiffness: ei, Length: length, Load: load})
		if err != nil {
			return Penalty
		}
		sum := 0.0
		for _, r := range readings {
			v, _ := sol.DeflectionAt(r.pos)
			d := v - r.v
			sum += d * d
		}
		return sum
	}, nil
}

// Calibrate estimates the per-segment stiffness of the problem's batten.
func Calibrate(p Problem, opts ...Option) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg := config{minimizer: optim.NewNelderMead()}
	for _, opt := range opts {
		opt(&cfg)
	}

	objective, err := p.Objective()
	if err != nil {
		return nil, err
	}

	guess := p.InitialGuess()
	x0 := make([]float64, p.Segments)
	for i := range x0 {
		x0[i] = guess
	}

	best, err := cfg.minimizer.Minimize(objective, x0)
	if err != nil {
		return nil, fmt.Errorf("calibrate: %w", err)
	}

	res := &Result{
		Stiffness:    best.X,
		Average:      floats.Sum(best.X) / float64(len(best.X)),
		Residual:     best.F,
		InitialGuess: guess,
		Iterations:   best.Iterations,
		Evaluations:  best.Evaluations,
	}

	readings, _ := p.comparable()
	sol, err := fem.Solve(fem.Model{Stiffness: best.X, Length: p.LengthMm / 1000, Load: p.WeightKg * Gravity})
	if err == nil {
		for _, r := range readings {
			v, _ := sol.DeflectionAt(r.pos)
			res.Positions = append(res.Positions, r.pos)
			res.SimulatedMm = append(res.SimulatedMm, v*1000)
		}
	}
	return res, nil
}
