// Package fem implements a one-dimensional Euler-Bernoulli beam finite
// element solver for a simply supported, segmented beam under a single
// mid-span point load.
package fem

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/gobatten/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// MaxSegments bounds the number of stiffness segments in a model.
const MaxSegments = 4

// Model is a simply supported beam made of equal-length segments, each with
// constant flexural rigidity, loaded by a point force at mid-span.
type Model struct {
	Stiffness []float64 // EI per segment (N·m²)
	Length    float64   // total span (m)
	Load      float64   // point load (N), acting downward
}

// Validate checks that the model can be assembled into a non-singular system.
func (m Model) Validate() error {
	if len(m.Stiffness) == 0 {
		return &DegenerateInputError{msg: "beam needs at least one segment"}
	}
	if len(m.Stiffness) > MaxSegments {
		return &DegenerateInputError{msg: fmt.Sprintf("beam has %d segments, at most %d are supported", len(m.Stiffness), MaxSegments)}
	}
	if !(m.Length > 0) || math.IsInf(m.Length, 0) {
		return &DegenerateInputError{msg: fmt.Sprintf("beam length must be positive, got %g m", m.Length)}
	}
	if math.IsNaN(m.Load) || math.IsInf(m.Load, 0) {
		return &DegenerateInputError{msg: fmt.Sprintf("load must be finite, got %g N", m.Load)}
	}
	for i, ei := range m.Stiffness {
		if !(ei > 0) || math.IsInf(ei, 0) {
			return &DegenerateInputError{msg: fmt.Sprintf("segment %d stiffness must be positive, got %g N·m²", i+1, ei)}
		}
	}
	return nil
}

// DegenerateInputError reports a model whose stiffness matrix cannot be
// solved: non-positive stiffness or length, or a singular reduced system.
type DegenerateInputError struct {
	msg string
	err error
}

func (e *DegenerateInputError) Error() string {
	if e.err != nil {
		return "fem: " + e.msg + ": " + e.err.Error()
	}
	return "fem: " + e.msg
}

func (e *DegenerateInputError) Unwrap() error {
	return e.err
}

// ElementStiffness returns the 4×4 Euler-Bernoulli element matrix for the
// DOF order (v1, θ1, v2, θ2).
func ElementStiffness(ei, le float64) *mat.SymDense {
	k1 := 12 * ei / (le * le * le)
	k2 := 6 * ei / (le * le)
	k3 := 4 * ei / le
	k4 := 2 * ei / le
	return mat.NewSymDense(4, []float64{
		k1, k2, -k1, k2,
		k2, k3, -k2, k4,
		-k1, -k2, k1, -k2,
		k2, k4, -k2, k3,
	})
}

// Assemble builds the global stiffness matrix by superposing the element
// blocks. The result is singular until boundary conditions are applied.
func Assemble(m Model, mesh Mesh) *mat.SymDense {
	k := mat.NewSymDense(mesh.Dof, nil)
	for e := 0; e < mesh.Elements; e++ {
		ke := ElementStiffness(m.Stiffness[mesh.Segment(e)], mesh.ElementLength)
		dofs := [4]int{2 * e, 2*e + 1, 2*e + 2, 2*e + 3}
		// global indices grow with local ones, so the upper triangle is enough
		for i := 0; i < 4; i++ {
			for j := i; j < 4; j++ {
				gi, gj := dofs[i], dofs[j]
				k.SetSym(gi, gj, k.At(gi, gj)+ke.At(i, j))
			}
		}
	}
	return k
}

// Solution holds the nodal results of a solve.
type Solution struct {
	Mesh         Mesh
	Length       float64   // m
	Displacement []float64 // full DOF vector, upward positive
	Residual     float64   // ‖K·u − f‖ of the reduced system
}

// Solve assembles and solves the model. Both end displacements are fixed;
// rotations stay free.
func Solve(m Model) (*Solution, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	mesh := NewMesh(len(m.Stiffness), m.Length)
	k := Assemble(m, mesh)

	f := make([]float64, mesh.Dof)
	f[2*mesh.LoadNode()] = -m.Load

	fixed := map[int]bool{0: true, 2 * (mesh.Nodes - 1): true}
	free := make([]int, 0, mesh.Dof-len(fixed))
	for d := 0; d < mesh.Dof; d++ {
		if !fixed[d] {
			free = append(free, d)
		}
	}

	kr := mat.NewSymDense(len(free), nil)
	fr := make([]float64, len(free))
	for i, gi := range free {
		fr[i] = f[gi]
		for j := i; j < len(free); j++ {
			kr.SetSym(i, j, k.At(gi, free[j]))
		}
	}

	ur, err := linalg.Solve(kr, fr)
	if err != nil {
		if errors.Is(err, linalg.ErrSingular) {
			return nil, &DegenerateInputError{msg: "reduced stiffness matrix is singular", err: err}
		}
		return nil, err
	}

	u := make([]float64, mesh.Dof)
	for i, d := range free {
		u[d] = ur[i]
	}

	return &Solution{
		Mesh:         mesh,
		Length:       m.Length,
		Displacement: u,
		Residual:     linalg.Residual(kr, ur, fr),
	}, nil
}

// Deflection returns the downward deflection (m) of a node.
func (s *Solution) Deflection(node int) float64 {
	return -s.Displacement[2*node]
}

// Rotation returns the rotation (rad) of a node.
func (s *Solution) Rotation(node int) float64 {
	return s.Displacement[2*node+1]
}

// DeflectionAt returns the downward deflection at fraction f of the span,
// provided a node lies there.
func (s *Solution) DeflectionAt(f float64) (float64, bool) {
	node, ok := s.Mesh.NodeAt(f)
	if !ok {
		return 0, false
	}
	return s.Deflection(node), true
}

// Deflections returns the downward deflections at the mesh query points.
func (s *Solution) Deflections() []float64 {
	points := s.Mesh.QueryPoints()
	out := make([]float64, len(points))
	for i, f := range points {
		out[i], _ = s.DeflectionAt(f)
	}
	return out
}

// Shape returns node positions (m) and downward deflections (m) along the
// whole span.
func (s *Solution) Shape() (x, y []float64) {
	x = make([]float64, s.Mesh.Nodes)
	y = make([]float64, s.Mesh.Nodes)
	for n := 0; n < s.Mesh.Nodes; n++ {
		x[n] = float64(n) * s.Mesh.ElementLength
		y[n] = s.Deflection(n)
	}
	return x, y
}

// SolveForward returns the deflection magnitudes (m) at the query points for
// the given per-segment stiffness, mid-span load (N) and span (m).
func SolveForward(stiffness []float64, loadN, lengthM float64) ([]float64, error) {
	sol, err := Solve(Model{Stiffness: stiffness, Length: lengthM, Load: loadN})
	if err != nil {
		return nil, err
	}
	return sol.Deflections(), nil
}
