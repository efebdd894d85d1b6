package optim

import "fmt"

// Method names accepted by ByName.
const (
	MethodSimplex = "simplex"
	MethodGonum   = "gonum"
)

// ByName returns the minimizer registered under name. An empty name selects
// the fixed-budget simplex search.
func ByName(name string) (Minimizer, error) {
	switch name {
	case "", MethodSimplex:
		return NewNelderMead(), nil
	case MethodGonum:
		return Gonum{}, nil
	default:
		return nil, fmt.Errorf("optim: unknown method %q (want %s or %s)", name, MethodSimplex, MethodGonum)
	}
}
