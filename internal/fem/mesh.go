package fem

import "math"

// Quarter-span positions reported for meshes that resolve them
var (
	midSpan     = []float64{0.5}
	quarterSpan = []float64{0.25, 0.5, 0.75}
)

// Mesh is the finite element discretisation of a segmented beam.
//
// Every segment is split into the same number of equal elements, chosen so
// that the quarter, half and three-quarter span positions all fall on nodes
// and the point load always sits exactly at mid-span.
type Mesh struct {
	Segments      int     // number of stiffness segments
	PerSegment    int     // elements per segment
	Elements      int     // total elements
	Nodes         int     // Elements + 1
	Dof           int     // 2 per node: displacement and rotation
	ElementLength float64 // m
}

// NewMesh builds the mesh for a beam of the given span split into segments.
func NewMesh(segments int, length float64) Mesh {
	per := lcm(segments, 4) / segments
	elements := segments * per
	return Mesh{
		Segments:      segments,
		PerSegment:    per,
		Elements:      elements,
		Nodes:         elements + 1,
		Dof:           2 * (elements + 1),
		ElementLength: length / float64(elements),
	}
}

// NodeAt returns the node lying at fraction f of the span, if there is one.
func (m Mesh) NodeAt(f float64) (int, bool) {
	pos := f * float64(m.Elements)
	node := math.Round(pos)
	if math.Abs(pos-node) > 1e-9 || node < 0 || int(node) >= m.Nodes {
		return 0, false
	}
	return int(node), true
}

// LoadNode is the mid-span node carrying the point load.
func (m Mesh) LoadNode() int {
	return m.Elements / 2
}

// QueryPoints returns the span fractions at which deflections are reported.
// A two segment beam only reports mid-span.
func (m Mesh) QueryPoints() []float64 {
	if m.Segments == 2 {
		return append([]float64(nil), midSpan...)
	}
	return append([]float64(nil), quarterSpan...)
}

// Segment returns the stiffness segment element e belongs to.
func (m Mesh) Segment(e int) int {
	return e / m.PerSegment
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
