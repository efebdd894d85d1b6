package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexiusacademia/gobatten/internal/calibrate"
	"github.com/xuri/excelize/v2"
)

// BatchRow is one calibration request read from a workbook.
type BatchRow struct {
	Line    int // 1-based sheet row
	Name    string
	Problem calibrate.Problem
}

// BatchResult pairs a request with its outcome. Err is set when the row
// could not be calibrated.
type BatchResult struct {
	Row    BatchRow
	Result *calibrate.Result
	Err    error
}

var batchHeader = []string{"name", "segments", "weight_kg", "length_mm", "d1_mm", "d2_mm", "d3_mm"}

// ReadBatch parses the first sheet of a workbook. The first row is a header;
// each following row holds name, segments, weight (kg), length (mm) and one
// or three deflections (mm). Blank rows are skipped.
func ReadBatch(r io.Reader) ([]BatchRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("report: open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("report: read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("report: sheet has no data rows")
	}

	var out []BatchRow
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		row, err := parseRow(rows[i])
		if err != nil {
			return nil, fmt.Errorf("report: row %d: %w", i+1, err)
		}
		row.Line = i + 1
		out = append(out, row)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string) (BatchRow, error) {
	if len(row) < 5 {
		return BatchRow{}, fmt.Errorf("need at least 5 columns, got %d", len(row))
	}
	segments, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return BatchRow{}, fmt.Errorf("segments: %w", err)
	}
	weight, err := toFloat(row[2])
	if err != nil {
		return BatchRow{}, fmt.Errorf("weight: %w", err)
	}
	length, err := toFloat(row[3])
	if err != nil {
		return BatchRow{}, fmt.Errorf("length: %w", err)
	}
	var defl []float64
	for _, c := range row[4:min(len(row), 7)] {
		if strings.TrimSpace(c) == "" {
			continue
		}
		v, err := toFloat(c)
		if err != nil {
			return BatchRow{}, fmt.Errorf("deflection: %w", err)
		}
		defl = append(defl, v)
	}
	return BatchRow{
		Name: strings.TrimSpace(row[0]),
		Problem: calibrate.Problem{
			WeightKg:      weight,
			LengthMm:      length,
			DeflectionsMm: defl,
			Segments:      segments,
		},
	}, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// RunBatch calibrates every row, collecting per-row errors.
func RunBatch(rows []BatchRow, opts ...calibrate.Option) []BatchResult {
	out := make([]BatchResult, len(rows))
	for i, row := range rows {
		res, err := calibrate.Calibrate(row.Problem, opts...)
		out[i] = BatchResult{Row: row, Result: res, Err: err}
	}
	return out
}

// WriteBatch writes the inputs and calibrated stiffness of each result to a
// new workbook.
func WriteBatch(w io.Writer, results []BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{}
	for _, h := range batchHeader {
		header = append(header, h)
	}
	header = append(header, "ei1_nm2", "ei2_nm2", "ei3_nm2", "ei4_nm2", "average_nm2", "residual_m2", "error")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range results {
		p := r.Row.Problem
		row := []interface{}{r.Row.Name, p.Segments, p.WeightKg, p.LengthMm}
		for j := 0; j < 3; j++ {
			if j < len(p.DeflectionsMm) {
				row = append(row, p.DeflectionsMm[j])
			} else {
				row = append(row, nil)
			}
		}
		for j := 0; j < 4; j++ {
			if r.Result != nil && j < len(r.Result.Stiffness) {
				row = append(row, r.Result.Stiffness[j])
			} else {
				row = append(row, nil)
			}
		}
		if r.Result != nil {
			row = append(row, r.Result.Average, r.Result.Residual, "")
		} else {
			row = append(row, nil, nil, errText(r.Err))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
