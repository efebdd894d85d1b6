package section

import (
	"math"
	"sort"
)

// CalculateProperties computes geometric properties of the section
func (s *Section) CalculateProperties() *Properties {
	props := &Properties{}

	if len(s.Vertices) < 3 {
		return props
	}

	// Find bounding box
	minX, maxX := s.Vertices[0].X, s.Vertices[0].X
	minY, maxY := s.Vertices[0].Y, s.Vertices[0].Y
	for _, v := range s.Vertices {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	props.Width = maxX - minX
	props.Height = maxY - minY

	props.Area, props.CentroidX, props.CentroidY = s.areaAndCentroid()
	props.Inertia = s.centroidalInertia(props.Area, props.CentroidY)

	// MPa · mm⁴ = N·mm², then to N·m²
	props.EI = s.ModulusGPa * 1000 * props.Inertia / 1e6

	return props
}

// areaAndCentroid uses the shoelace formula
func (s *Section) areaAndCentroid() (area, cx, cy float64) {
	n := len(s.Vertices)
	if n < 3 {
		return 0, 0, 0
	}

	var signedArea float64
	var sumX, sumY float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := s.Vertices[i].X*s.Vertices[j].Y - s.Vertices[j].X*s.Vertices[i].Y
		signedArea += cross
		sumX += (s.Vertices[i].X + s.Vertices[j].X) * cross
		sumY += (s.Vertices[i].Y + s.Vertices[j].Y) * cross
	}

	signedArea /= 2
	area = math.Abs(signedArea)

	if area > 0 {
		cx = sumX / (6 * signedArea)
		cy = sumY / (6 * signedArea)
	}

	return area, cx, cy
}

// centroidalInertia returns Ix about the horizontal axis through the
// centroid, via the parallel axis theorem on the origin moment.
func (s *Section) centroidalInertia(area, cy float64) float64 {
	n := len(s.Vertices)
	var sum, signedArea float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		yi, yj := s.Vertices[i].Y, s.Vertices[j].Y
		cross := s.Vertices[i].X*yj - s.Vertices[j].X*yi
		signedArea += cross
		sum += (yi*yi + yi*yj + yj*yj) * cross
	}
	ix := sum / 12
	if signedArea < 0 {
		ix = -ix
	}
	return ix - area*cy*cy
}

// WidthAtY returns the total width of the section at height y (mm)
func (s *Section) WidthAtY(y float64) float64 {
	xs := s.findIntersectionsAtY(y)
	if len(xs) < 2 {
		return 0
	}
	width := 0.0
	for i := 0; i+1 < len(xs); i += 2 {
		width += xs[i+1] - xs[i]
	}
	return width
}

// findIntersectionsAtY returns sorted x coordinates where the outline
// crosses height y
func (s *Section) findIntersectionsAtY(y float64) []float64 {
	var xs []float64
	n := len(s.Vertices)
	for i := 0; i < n; i++ {
		curr := s.Vertices[i]
		next := s.Vertices[(i+1)%n]
		if (curr.Y <= y && next.Y > y) || (next.Y <= y && curr.Y > y) {
			t := (y - curr.Y) / (next.Y - curr.Y)
			xs = append(xs, curr.X+t*(next.X-curr.X))
		}
	}
	sort.Float64s(xs)
	return xs
}
