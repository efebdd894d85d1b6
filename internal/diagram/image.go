package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DeflectionChart holds a computed deflected shape and, optionally, the
// readings it was fitted to. All values are in mm.
type DeflectionChart struct {
	Title     string
	X, Y      []float64 // computed shape, Y downward
	MeasuredX []float64
	MeasuredY []float64
}

// ExportDeflectionChart exports the deflected shape to an image file
func ExportDeflectionChart(data DeflectionChart, filename string) error {
	if len(data.X) != len(data.Y) || len(data.X) == 0 {
		return fmt.Errorf("diagram: shape needs matching non-empty X and Y")
	}
	if len(data.MeasuredX) != len(data.MeasuredY) {
		return fmt.Errorf("diagram: measured X and Y differ in length")
	}

	p := plot.New()
	p.Title.Text = data.Title
	if p.Title.Text == "" {
		p.Title.Text = "Deflected Shape"
	}
	p.X.Label.Text = "Position (mm)"
	p.Y.Label.Text = "Deflection (mm)"

	shape := make(plotter.XYs, len(data.X))
	for i := range data.X {
		shape[i] = plotter.XY{X: data.X[i], Y: -data.Y[i]}
	}
	line, err := plotter.NewLine(shape)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	p.Add(line)

	// Undeflected axis
	axis, err := plotter.NewLine(plotter.XYs{
		{X: data.X[0], Y: 0},
		{X: data.X[len(data.X)-1], Y: 0},
	})
	if err != nil {
		return err
	}
	axis.LineStyle.Color = color.Gray{Y: 128}
	axis.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(axis)

	if len(data.MeasuredX) > 0 {
		pts := make(plotter.XYs, len(data.MeasuredX))
		texts := make([]string, len(data.MeasuredX))
		for i := range data.MeasuredX {
			pts[i] = plotter.XY{X: data.MeasuredX[i], Y: -data.MeasuredY[i]}
			texts[i] = fmt.Sprintf("%.2fmm", data.MeasuredY[i])
		}
		measured, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		measured.GlyphStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
		measured.GlyphStyle.Radius = vg.Points(4)
		measured.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(measured)

		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: texts})
		if err != nil {
			return err
		}
		p.Add(labels)
		p.Legend.Add("measured", measured)
	}
	p.Legend.Add("model", line)

	return save(p, 8*vg.Inch, 5*vg.Inch, filename)
}

// ExportStiffnessChart exports the stepwise EI distribution along the span
func ExportStiffnessChart(stiffness []float64, lengthMm float64, filename string) error {
	if len(stiffness) == 0 || lengthMm <= 0 {
		return fmt.Errorf("diagram: stiffness chart needs segments and a positive length")
	}

	p := plot.New()
	p.Title.Text = "Stiffness Distribution"
	p.X.Label.Text = "Position (mm)"
	p.Y.Label.Text = "EI (N·m²)"
	p.Y.Min = 0

	seg := lengthMm / float64(len(stiffness))
	steps := make(plotter.XYs, 0, 2*len(stiffness))
	for i, ei := range stiffness {
		steps = append(steps,
			plotter.XY{X: float64(i) * seg, Y: ei},
			plotter.XY{X: float64(i+1) * seg, Y: ei},
		)
	}
	line, err := plotter.NewLine(steps)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	p.Add(line)

	return save(p, 8*vg.Inch, 4*vg.Inch, filename)
}

// save writes p in the format named by the file extension, defaulting to
// PNG.
func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

// Point represents a 2D coordinate for section vertices
type Point struct {
	X float64
	Y float64
}

// ExportSectionOutline exports a cross-section outline with its neutral
// axis at height naY
func ExportSectionOutline(vertices []Point, naY float64, filename string) error {
	if len(vertices) < 3 {
		return fmt.Errorf("diagram: section needs at least 3 vertices")
	}

	p := plot.New()
	p.Title.Text = "Batten Section"
	p.X.Label.Text = "Width (mm)"
	p.Y.Label.Text = "Height (mm)"

	outline := make(plotter.XYs, len(vertices))
	minX, maxX := vertices[0].X, vertices[0].X
	for i, v := range vertices {
		outline[i] = plotter.XY{X: v.X, Y: v.Y}
		minX = min(minX, v.X)
		maxX = max(maxX, v.X)
	}

	fill, err := plotter.NewPolygon(outline)
	if err != nil {
		return err
	}
	fill.Color = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	fill.LineStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	p.Add(fill)

	naLine, err := plotter.NewLine(plotter.XYs{
		{X: minX - 2, Y: naY},
		{X: maxX + 2, Y: naY},
	})
	if err != nil {
		return err
	}
	naLine.LineStyle.Width = vg.Points(1.5)
	naLine.LineStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	naLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(naLine)

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: maxX + 2, Y: naY}},
		Labels: []string{"N.A."},
	})
	if err != nil {
		return err
	}
	p.Add(label)

	return save(p, 6*vg.Inch, 4*vg.Inch, filename)
}
