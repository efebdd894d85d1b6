// Package composite computes the equivalent constant stiffness of a batten
// built from segments of known length and flexural rigidity.
package composite

import (
	"fmt"
	"math"
)

// Segment is one piece of a composite batten.
type Segment struct {
	LengthMm float64 `json:"length_mm"`
	EI       float64 `json:"ei_nm2"`
}

// Result holds the total length and the constant EI giving the same
// mid-span deflection under a mid-span point load.
type Result struct {
	TotalLengthMm float64 `json:"total_length_mm"`
	EquivalentEI  float64 `json:"equivalent_ei_nm2"`
}

// ValidationError reports a malformed segment.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Validate checks segment lengths and stiffness are finite non-negative
// numbers.
func Validate(segments []Segment) error {
	for i, s := range segments {
		if math.IsNaN(s.LengthMm) || s.LengthMm < 0 || math.IsInf(s.LengthMm, 0) {
			return &ValidationError{fmt.Sprintf("segment %d: length must be a non-negative number, got %g mm", i+1, s.LengthMm)}
		}
		if math.IsNaN(s.EI) || s.EI < 0 || math.IsInf(s.EI, 0) {
			return &ValidationError{fmt.Sprintf("segment %d: EI must be a finite non-negative number, got %g N·m²", i+1, s.EI)}
		}
	}
	return nil
}

// Equivalent integrates x²/EI(x) over the first half of the span and returns
// EI_eq = L³ / (24·∫). Segments are taken in order and the one straddling
// mid-span is clipped there; by symmetry the rest contribute nothing.
//
// A zero-stiffness segment inside the half span, a zero total length or any
// other non-finite outcome yields an equivalent EI of 0.
func Equivalent(segments []Segment) (*Result, error) {
	if err := Validate(segments); err != nil {
		return nil, err
	}

	total := 0.0
	for _, s := range segments {
		total += s.LengthMm
	}
	res := &Result{TotalLengthMm: total}
	if total <= 0 {
		return res, nil
	}

	half := total / 2
	integral := 0.0
	pos := 0.0
	for _, s := range segments {
		start := pos
		end := math.Min(pos+s.LengthMm, half)
		if end > start {
			eiMm := s.EI * 1e6 // N·m² to N·mm²
			integral += (end*end*end - start*start*start) / (3 * eiMm)
		}
		pos += s.LengthMm
		if pos >= half {
			break
		}
	}

	eq := total * total * total / (24 * integral) / 1e6
	if math.IsNaN(eq) || math.IsInf(eq, 0) {
		eq = 0
	}
	res.EquivalentEI = eq
	return res, nil
}
