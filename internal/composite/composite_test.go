package composite

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestEquivalentSingleSegmentIsIdentity(t *testing.T) {
	for _, ei := range []float64{0.5, 2.5, 480, 1e4} {
		res, err := Equivalent([]Segment{{LengthMm: 2750, EI: ei}})
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinRel(res.EquivalentEI, ei, 1e-12) {
			t.Errorf("EI %g: got %g", ei, res.EquivalentEI)
		}
		if res.TotalLengthMm != 2750 {
			t.Errorf("total length %g", res.TotalLengthMm)
		}
	}
}

func TestEquivalentThreeSegments(t *testing.T) {
	res, err := Equivalent([]Segment{{1000, 2.5}, {1000, 3.5}, {1000, 2.0}})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalLengthMm != 3000 {
		t.Errorf("total length %g, want 3000", res.TotalLengthMm)
	}
	// ∫ = 1000³/(3·2.5e6) + (1500³ − 1000³)/(3·3.5e6); the last segment lies past mid-span
	integral := 1e9/7.5e6 + (1500*1500*1500-1e9)/1.05e7
	want := 27e9 / (24 * integral) / 1e6
	if !scalar.EqualWithinRel(res.EquivalentEI, want, 1e-12) {
		t.Errorf("got %.12g, want %.12g", res.EquivalentEI, want)
	}
	if !scalar.EqualWithinRel(res.EquivalentEI, 3.12913907284768, 1e-12) {
		t.Errorf("got %.15g", res.EquivalentEI)
	}
}

func TestEquivalentIsMonotonic(t *testing.T) {
	base := []Segment{{800, 2.0}, {700, 3.0}, {900, 2.4}, {600, 1.8}}
	ref, err := Equivalent(base)
	if err != nil {
		t.Fatal(err)
	}
	for i := range base {
		for _, ei := range []float64{0, 1, 2.5, 10} {
			segs := append([]Segment(nil), base...)
			lower, err := Equivalent(withEI(segs, i, ei))
			if err != nil {
				t.Fatal(err)
			}
			higher, err := Equivalent(withEI(segs, i, ei+0.5))
			if err != nil {
				t.Fatal(err)
			}
			if higher.EquivalentEI < lower.EquivalentEI {
				t.Errorf("segment %d: raising EI %g→%g lowered result %g→%g",
					i, ei, ei+0.5, lower.EquivalentEI, higher.EquivalentEI)
			}
		}
	}
	if ref.EquivalentEI <= 0 {
		t.Errorf("reference result %g", ref.EquivalentEI)
	}
}

func withEI(segs []Segment, i int, ei float64) []Segment {
	out := append([]Segment(nil), segs...)
	out[i].EI = ei
	return out
}

func TestEquivalentClipsAtMidSpan(t *testing.T) {
	// only the first 1500 mm count, so changing the tail changes nothing
	a, err := Equivalent([]Segment{{1200, 3}, {600, 2}, {1200, 9}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Equivalent([]Segment{{1200, 3}, {600, 2}, {1200, 0.1}})
	if err != nil {
		t.Fatal(err)
	}
	if a.EquivalentEI != b.EquivalentEI {
		t.Errorf("tail changed result: %g vs %g", a.EquivalentEI, b.EquivalentEI)
	}
}

func TestEquivalentDegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		segs []Segment
	}{
		{"empty", nil},
		{"zero lengths", []Segment{{0, 2.5}, {0, 3}}},
		{"zero stiffness before mid-span", []Segment{{1000, 0}, {1000, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Equivalent(tt.segs)
			if err != nil {
				t.Fatal(err)
			}
			if res.EquivalentEI != 0 || math.IsNaN(res.EquivalentEI) {
				t.Errorf("got %g, want 0", res.EquivalentEI)
			}
		})
	}
}

func TestEquivalentRejectsInvalidValues(t *testing.T) {
	for _, segs := range [][]Segment{
		{{-10, 2}},
		{{1000, -2}},
		{{math.NaN(), 2}},
		{{1000, math.Inf(1)}},
		{{1000, math.Inf(1)}, {1000, math.Inf(1)}},
	} {
		_, err := Equivalent(segs)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%v: got %v, want ValidationError", segs, err)
		}
	}
}
