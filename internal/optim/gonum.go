package optim

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// Gonum adapts a gonum optimize.Method to the Minimizer interface. It
// terminates on convergence rather than on a fixed budget.
type Gonum struct {
	Method   optimize.Method    // defaults to gonum's NelderMead
	Settings *optimize.Settings // defaults to GonumSettings()
}

// GonumSettings returns settings suited to calibration objectives, whose
// values are squared deflection errors in m².
func GonumSettings() *optimize.Settings {
	return &optimize.Settings{
		MajorIterations: 5000,
		FuncEvaluations: 20000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-20,
			Relative:   1e-12,
			Iterations: 200,
		},
	}
}

// Minimize runs the configured gonum method from x0.
func (g Gonum) Minimize(f Func, x0 []float64) (*Result, error) {
	if len(x0) == 0 {
		return nil, ErrNoVariables
	}
	method := g.Method
	if method == nil {
		method = &optimize.NelderMead{}
	}
	settings := g.Settings
	if settings == nil {
		settings = GonumSettings()
	}

	problem := optimize.Problem{Func: f}
	res, err := optimize.Minimize(problem, append([]float64(nil), x0...), settings, method)
	if res == nil {
		return nil, fmt.Errorf("optim: gonum minimize: %w", err)
	}
	// Hitting an iteration or evaluation limit still leaves a usable point
	return &Result{
		X:           res.X,
		F:           res.F,
		Iterations:  res.Stats.MajorIterations,
		Evaluations: res.Stats.FuncEvaluations,
	}, nil
}
