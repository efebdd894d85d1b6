// Package batten evaluates the three-point bend test of a sail batten:
// readings at quarter, half and three-quarter span, unloaded and loaded.
package batten

import (
	"fmt"
	"math"
)

// StandardGravity converts the test weight to newtons.
const StandardGravity = 9.80665

// Span positions of the three readings
const (
	Front  = 0 // quarter span
	Middle = 1 // half span
	Back   = 2 // three-quarter span
)

// Measurements are the raw readings of a bend test. Self holds the heights
// (mm) under the batten's own weight, Weighted the heights with the test
// weight hung at mid-span.
type Measurements struct {
	TestWeightKg float64    `json:"test_weight_kg"`
	TestLengthMm float64    `json:"test_length_mm"`
	Self         [3]float64 `json:"self"`
	Weighted     [3]float64 `json:"weighted"`
}

// Analysis summarises the bend profile of a batten.
type Analysis struct {
	FrontPercent  float64 `json:"front_percent"`  // quarter-span deflection relative to mid-span
	BackPercent   float64 `json:"back_percent"`   // three-quarter-span deflection relative to mid-span
	CamberPercent float64 `json:"camber_percent"` // mid-span deflection relative to length
	AverageEI     float64 `json:"average_ei"`     // N·m²
	Deflection    float64 `json:"deflection_mm"`  // net mid-span deflection
	DraftPosition float64 `json:"draft_position"` // percent of span from the leading end
}

// Validate rejects negative weight or length.
func (m Measurements) Validate() error {
	if m.TestWeightKg < 0 || math.IsNaN(m.TestWeightKg) {
		return fmt.Errorf("test weight must not be negative, got %g kg", m.TestWeightKg)
	}
	if m.TestLengthMm < 0 || math.IsNaN(m.TestLengthMm) {
		return fmt.Errorf("test length must not be negative, got %g mm", m.TestLengthMm)
	}
	return nil
}

// Net returns the deflections caused by the test weight. Mid-span is floored
// at minMid so ratios stay finite.
func (m Measurements) Net(minMid float64) (front, mid, back float64) {
	front = math.Max(0, m.Weighted[Front]-m.Self[Front])
	mid = math.Max(minMid, m.Weighted[Middle]-m.Self[Middle])
	back = math.Max(0, m.Weighted[Back]-m.Self[Back])
	return front, mid, back
}

// Analyze computes the bend profile from the readings.
func Analyze(m Measurements) (*Analysis, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	d14, d12, d34 := m.Net(0.1)

	length := m.TestLengthMm / 1000
	force := m.TestWeightKg * StandardGravity

	a := &Analysis{
		FrontPercent:  d14 / d12 * 100,
		BackPercent:   d34 / d12 * 100,
		Deflection:    d12,
		DraftPosition: 50 - (d14-d34)/d12*10,
	}
	if m.TestLengthMm > 0 {
		a.CamberPercent = d12 / m.TestLengthMm * 100
	}
	a.AverageEI = force * length * length * length / (48 * (d12 / 1000))
	return a, nil
}
