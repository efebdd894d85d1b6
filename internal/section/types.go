package section

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Section is a batten cross-section defined by vertices.
// The section is defined in a local coordinate system where:
// - Y-axis points upward (bending is about the horizontal centroidal axis)
// - X-axis points to the right
// - Origin can be at any convenient location
type Section struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Young's modulus of the material (GPa)
	ModulusGPa float64 `json:"modulus_gpa"`

	// Outline vertices (mm), in either winding order. The section is
	// assumed to be a simple polygon (no holes).
	Vertices []Point `json:"vertices"`
}

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"` // mm
	Y float64 `json:"y"` // mm
}

// Properties holds calculated geometric properties
type Properties struct {
	Width  float64 // Maximum width (mm)
	Height float64 // Total height (mm)
	Area   float64 // mm²

	// Centroid location
	CentroidX float64 // mm
	CentroidY float64 // mm

	// Second moment of area about the horizontal centroidal axis (mm⁴)
	Inertia float64

	// Flexural rigidity E·I (N·m²)
	EI float64
}

// Rectangle returns a solid rectangular section of the given size (mm).
func Rectangle(name string, width, height, modulusGPa float64) *Section {
	return &Section{
		Name:       name,
		ModulusGPa: modulusGPa,
		Vertices: []Point{
			{0, 0}, {width, 0}, {width, height}, {0, height},
		},
	}
}

// Validate checks if the section definition is valid
func (s *Section) Validate() error {
	if len(s.Vertices) < 3 {
		return &ValidationError{"section must have at least 3 vertices"}
	}
	if !(s.ModulusGPa > 0) || math.IsInf(s.ModulusGPa, 0) {
		return &ValidationError{fmt.Sprintf("modulus must be positive, got %g GPa", s.ModulusGPa)}
	}
	for i, v := range s.Vertices {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return &ValidationError{fmt.Sprintf("vertex %d is not a finite point", i+1)}
		}
	}
	if a, _, _ := s.areaAndCentroid(); a == 0 {
		return &ValidationError{"section has zero area"}
	}
	return nil
}

// ValidationError represents a section validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// LoadFromFile loads a section definition from a JSON file
func LoadFromFile(filepath string) (*Section, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var section Section
	if err := json.Unmarshal(data, &section); err != nil {
		return nil, err
	}

	if err := section.Validate(); err != nil {
		return nil, err
	}

	return &section, nil
}
