package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDrawSummaryBoxAligns(t *testing.T) {
	body := []string{"EI = 3.13 N·m²", "short"}
	out := DrawSummaryBox("RESULT", body)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top border, title, separator, body, bottom border
	if want := 4 + len(body); len(lines) != want {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), want, out)
	}
	width := len([]rune(lines[0]))
	for i, l := range lines {
		if n := len([]rune(l)); n != width {
			t.Errorf("line %d has width %d, want %d: %q", i, n, width, l)
		}
	}
	if !strings.Contains(out, "RESULT") {
		t.Error("title missing")
	}
}

func TestDrawSegmentBar(t *testing.T) {
	out := DrawSegmentBar([]float64{1, 2, 0}, 10)
	if !strings.Contains(out, "S1 ") || !strings.Contains(out, "S3 ") {
		t.Fatalf("segment labels missing:\n%s", out)
	}
	if strings.Count(out, "█") != 5+10 {
		t.Errorf("got %d bar cells, want 15:\n%s", strings.Count(out, "█"), out)
	}
}

func TestDrawASCIICurve(t *testing.T) {
	if DrawASCIICurve(nil, "x") != "" {
		t.Error("empty input should draw nothing")
	}
	out := DrawASCIICurve([]float64{0, 1, 1.5, 1, 0}, "deflection (mm)")
	if !strings.Contains(out, "deflection (mm)") {
		t.Errorf("caption missing:\n%s", out)
	}
}

func TestExportCharts(t *testing.T) {
	dir := t.TempDir()
	chart := DeflectionChart{
		X:         []float64{0, 500, 1000, 1500, 2000},
		Y:         []float64{0, 20, 30, 20, 0},
		MeasuredX: []float64{500, 1000, 1500},
		MeasuredY: []float64{21, 29, 19},
	}
	files := []string{
		filepath.Join(dir, "out", "shape.png"),
		filepath.Join(dir, "shape.svg"),
	}
	for _, f := range files {
		if err := ExportDeflectionChart(chart, f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
	}
	stiff := filepath.Join(dir, "stiffness")
	if err := ExportStiffnessChart([]float64{2, 3, 3, 2}, 2000, stiff); err != nil {
		t.Fatal(err)
	}
	files = append(files, stiff+".png")
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			t.Errorf("%s: %v", f, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", f)
		}
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	if err := ExportDeflectionChart(DeflectionChart{X: []float64{1}, Y: nil}, filepath.Join(dir, "a.png")); err == nil {
		t.Error("expected error for mismatched shape")
	}
	if err := ExportStiffnessChart(nil, 100, filepath.Join(dir, "b.png")); err == nil {
		t.Error("expected error for no segments")
	}
}

func TestExportSectionOutline(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "section.svg")
	pts := []Point{{0, 0}, {30, 0}, {30, 6}, {0, 6}}
	if err := ExportSectionOutline(pts, 3, f); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(f); err != nil {
		t.Error(err)
	}
	if err := ExportSectionOutline(pts[:2], 0, f); err == nil {
		t.Error("expected error for two vertices")
	}
}
