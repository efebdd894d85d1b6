package fem_test

import (
	"errors"
	"math"
	"testing"

	"github.com/alexiusacademia/gobatten/internal/composite"
	"github.com/alexiusacademia/gobatten/internal/fem"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func uniform(n int, ei float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = ei
	}
	return s
}

func TestUniformBeamMatchesClosedForm(t *testing.T) {
	const (
		load   = 49.05
		length = 3.0
		ei     = 480.0
	)
	mid := load * length * length * length / (48 * ei)
	// δ(x) = P·x·(3L² − 4x²) / (48·EI) for x ≤ L/2
	quarter := load * (length / 4) * (3*length*length - length*length/4) / (48 * ei)

	for _, n := range []int{1, 2, 3, 4} {
		got, err := fem.SolveForward(uniform(n, ei), load, length)
		if err != nil {
			t.Fatalf("%d segments: unexpected error: %v", n, err)
		}
		want := []float64{quarter, mid, quarter}
		if n == 2 {
			want = []float64{mid}
		}
		if len(got) != len(want) {
			t.Fatalf("%d segments: got %d deflections, want %d", n, len(got), len(want))
		}
		for i := range want {
			if !scalar.EqualWithinRel(got[i], want[i], 1e-9) {
				t.Errorf("%d segments: point %d = %.12g, want %.12g", n, i, got[i], want[i])
			}
		}
	}
}

func TestSymmetricBeamMatchesCurvatureIntegral(t *testing.T) {
	const (
		load   = 30.0
		length = 2.4
	)
	tests := []struct {
		name string
		ei   []float64
	}{
		{"two", []float64{310, 310}},
		{"three", []float64{250, 420, 250}},
		{"four", []float64{200, 390, 390, 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := make([]composite.Segment, len(tt.ei))
			for i, ei := range tt.ei {
				segs[i] = composite.Segment{LengthMm: length * 1000 / float64(len(tt.ei)), EI: ei}
			}
			eq, err := composite.Equivalent(segs)
			if err != nil {
				t.Fatal(err)
			}

			sol, err := fem.Solve(fem.Model{Stiffness: tt.ei, Length: length, Load: load})
			if err != nil {
				t.Fatal(err)
			}
			got, ok := sol.DeflectionAt(0.5)
			if !ok {
				t.Fatal("no node at mid-span")
			}
			want := load * length * length * length / (48 * eq.EquivalentEI)
			if !scalar.EqualWithinRel(got, want, 1e-9) {
				t.Errorf("mid-span deflection %.12g, want %.12g", got, want)
			}
		})
	}
}

func TestDeflectionsAreSymmetricForMirroredStiffness(t *testing.T) {
	d, err := fem.SolveForward([]float64{200, 500, 500, 200}, 50, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbsOrRel(d[0], d[2], 1e-12, 1e-9) {
		t.Errorf("quarter %g and three-quarter %g differ", d[0], d[2])
	}
	if d[1] <= d[0] {
		t.Errorf("mid-span %g should exceed quarter span %g", d[1], d[0])
	}
}

func TestStifferSegmentReducesDeflection(t *testing.T) {
	soft, err := fem.SolveForward([]float64{300, 300, 300}, 40, 2.8)
	if err != nil {
		t.Fatal(err)
	}
	stiff, err := fem.SolveForward([]float64{600, 300, 300}, 40, 2.8)
	if err != nil {
		t.Fatal(err)
	}
	for i := range soft {
		if stiff[i] >= soft[i] {
			t.Errorf("point %d: %g not below %g", i, stiff[i], soft[i])
		}
	}
	// stiffening the front shifts the shape backward
	if stiff[0] >= stiff[2] {
		t.Errorf("front %g should deflect less than back %g", stiff[0], stiff[2])
	}
}

func TestSupportsStayFixed(t *testing.T) {
	sol, err := fem.Solve(fem.Model{Stiffness: []float64{350, 410}, Length: 2, Load: 20})
	if err != nil {
		t.Fatal(err)
	}
	last := sol.Mesh.Nodes - 1
	if sol.Deflection(0) != 0 || sol.Deflection(last) != 0 {
		t.Errorf("support deflections %g, %g", sol.Deflection(0), sol.Deflection(last))
	}
	if sol.Rotation(0) == 0 {
		t.Error("end rotation should be free")
	}
	if sol.Residual > 1e-9 {
		t.Errorf("residual %g", sol.Residual)
	}
	x, y := sol.Shape()
	if len(x) != sol.Mesh.Nodes || len(y) != sol.Mesh.Nodes {
		t.Fatalf("shape has %d/%d points, want %d", len(x), len(y), sol.Mesh.Nodes)
	}
	if math.Abs(x[last]-2) > 1e-12 {
		t.Errorf("last node at %g, want 2", x[last])
	}
}

func TestDegenerateInput(t *testing.T) {
	tests := []struct {
		name string
		m    fem.Model
	}{
		{"no segments", fem.Model{Length: 1, Load: 1}},
		{"zero stiffness", fem.Model{Stiffness: []float64{1, 0}, Length: 1, Load: 1}},
		{"negative stiffness", fem.Model{Stiffness: []float64{1, -2, 1}, Length: 1, Load: 1}},
		{"NaN stiffness", fem.Model{Stiffness: []float64{math.NaN(), 1}, Length: 1, Load: 1}},
		{"zero length", fem.Model{Stiffness: []float64{1, 1}, Length: 0, Load: 1}},
		{"infinite load", fem.Model{Stiffness: []float64{1, 1}, Length: 1, Load: math.Inf(1)}},
		{"too many segments", fem.Model{Stiffness: uniform(fem.MaxSegments+1, 2), Length: 1, Load: 1}},
		{"huge odd segment count", fem.Model{Stiffness: uniform(1201, 2), Length: 1, Load: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fem.Solve(tt.m)
			var de *fem.DegenerateInputError
			if !errors.As(err, &de) {
				t.Errorf("got %v, want DegenerateInputError", err)
			}
		})
	}
}

func TestAssembledMatrixHasRigidBodyModes(t *testing.T) {
	m := fem.Model{Stiffness: []float64{300, 450}, Length: 1.2, Load: 1}
	mesh := fem.NewMesh(2, 1.2)
	k := fem.Assemble(m, mesh)
	n := k.SymmetricDim()
	if n != mesh.Dof {
		t.Fatalf("matrix size %d, want %d", n, mesh.Dof)
	}

	translation := make([]float64, n)
	rotation := make([]float64, n)
	for node := 0; node < mesh.Nodes; node++ {
		translation[2*node] = 1
		rotation[2*node] = float64(node) * mesh.ElementLength
		rotation[2*node+1] = 1
	}
	for name, u := range map[string][]float64{"translation": translation, "rotation": rotation} {
		var f mat.VecDense
		f.MulVec(k, mat.NewVecDense(n, u))
		if r := mat.Norm(&f, 2); r > 1e-8 {
			t.Errorf("rigid %s produces force %g", name, r)
		}
	}
}

func TestMeshResolvesQuarterPoints(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4} {
		m := fem.NewMesh(n, 3)
		for _, f := range []float64{0, 0.25, 0.5, 0.75, 1} {
			if _, ok := m.NodeAt(f); !ok {
				t.Errorf("%d segments: no node at %g", n, f)
			}
		}
		if m.Elements%n != 0 {
			t.Errorf("%d segments: %d elements do not divide evenly", n, m.Elements)
		}
	}
	if _, ok := fem.NewMesh(4, 1).NodeAt(1.0 / 3); ok {
		t.Error("four element mesh should have no node at a third")
	}
}
