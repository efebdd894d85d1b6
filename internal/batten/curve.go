package batten

// DefaultSteps is the number of intervals sampled by Curve.
const DefaultSteps = 60

// Point is a sample of the bend profile: X along the span (mm), Y the
// deflection (mm).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ControlPoints returns the supports and the three net readings as
// interpolation nodes.
func ControlPoints(m Measurements) []Point {
	d14, d12, d34 := m.Net(0)
	l := m.TestLengthMm
	return []Point{
		{0, 0},
		{0.25 * l, d14},
		{0.5 * l, d12},
		{0.75 * l, d34},
		{l, 0},
	}
}

// Lagrange evaluates the interpolating polynomial through nodes at x.
func Lagrange(nodes []Point, x float64) float64 {
	y := 0.0
	for i, ni := range nodes {
		if ni.Y == 0 {
			continue
		}
		basis := 1.0
		for j, nj := range nodes {
			if i != j {
				basis *= (x - nj.X) / (ni.X - nj.X)
			}
		}
		y += ni.Y * basis
	}
	return y
}

// Curve samples the bend profile at steps+1 evenly spaced positions.
func Curve(m Measurements, steps int) []Point {
	if steps <= 0 {
		steps = DefaultSteps
	}
	nodes := ControlPoints(m)
	out := make([]Point, steps+1)
	if m.TestLengthMm <= 0 {
		return out
	}
	for i := range out {
		x := float64(i) / float64(steps) * m.TestLengthMm
		out[i] = Point{X: x, Y: Lagrange(nodes, x)}
	}
	return out
}
