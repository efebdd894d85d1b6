// Package report renders calibration results as PDF reports and reads or
// writes batch workbooks.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/alexiusacademia/gobatten/internal/calibrate"
	"github.com/phpdave11/gofpdf"
)

// Document is the content of a calibration report.
type Document struct {
	Title   string
	Project string
	Author  string
	Date    time.Time
	Problem calibrate.Problem
	Result  *calibrate.Result
}

// WritePDF renders d as a single-page A4 PDF.
func WritePDF(w io.Writer, d Document) error {
	if d.Result == nil {
		return fmt.Errorf("report: no result to render")
	}
	if d.Title == "" {
		d.Title = "Batten Stiffness Calibration"
	}
	if d.Date.IsZero() {
		d.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, d.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if d.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", d.Project))
		pdf.Ln(6)
	}
	if d.Author != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Author: %s", d.Author))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", d.Date.Format("2006-01-02")))
	pdf.Ln(10)

	heading(pdf, "Test setup")
	pdf.Cell(0, 6, fmt.Sprintf("Test weight: %.3f kg", d.Problem.WeightKg))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Span: %.1f mm", d.Problem.LengthMm))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Segments: %d", d.Problem.Segments))
	pdf.Ln(10)

	heading(pdf, "Deflections")
	table(pdf, []string{"Position", "Measured (mm)", "Model (mm)"}, deflectionRows(d))
	pdf.Ln(6)

	heading(pdf, "Stiffness")
	var rows [][]string
	for i, ei := range d.Result.Stiffness {
		rows = append(rows, []string{fmt.Sprintf("Segment %d", i+1), fmt.Sprintf("%.4f", ei)})
	}
	rows = append(rows, []string{"Average", fmt.Sprintf("%.4f", d.Result.Average)})
	table(pdf, []string{"Segment", "EI (N·m²)"}, rows)
	pdf.Ln(6)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf(
		"Initial guess %.4f N·m². Residual %.3e m² after %d iterations (%d model evaluations).",
		d.Result.InitialGuess, d.Result.Residual, d.Result.Iterations, d.Result.Evaluations,
	)), "", "L", false)

	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, text)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func table(pdf *gofpdf.Fpdf, header []string, rows [][]string) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width := 150.0 / float64(len(header))
	pdf.SetFont("Helvetica", "B", 10)
	for _, h := range header {
		pdf.CellFormat(width, 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(width, 6, tr(cell), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func deflectionRows(d Document) [][]string {
	var rows [][]string
	positions, err := d.Problem.Positions()
	if err != nil {
		return nil
	}
	for i, f := range positions {
		model := "-"
		for j, pos := range d.Result.Positions {
			if pos == f && j < len(d.Result.SimulatedMm) {
				model = fmt.Sprintf("%.3f", d.Result.SimulatedMm[j])
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%g L", f),
			fmt.Sprintf("%.3f", d.Problem.DeflectionsMm[i]),
			model,
		})
	}
	return rows
}
