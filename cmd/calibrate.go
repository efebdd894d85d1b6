package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gobatten/internal/calibrate"
	"github.com/alexiusacademia/gobatten/internal/diagram"
	"github.com/alexiusacademia/gobatten/internal/fem"
	"github.com/alexiusacademia/gobatten/internal/optim"
	"github.com/alexiusacademia/gobatten/internal/report"
	"github.com/spf13/cobra"
)

var (
	calWeight      float64
	calLength      float64
	calDeflections []float64
	calSegments    int
	calMethod      string
	calIterations  int
	calPDF         string
	calChart       string
	calEIChart     string
	calProject     string
	calAuthor      string
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Estimate per-segment EI from measured deflections",
	Long: `Find the EI of each batten segment that reproduces the deflections
measured with a test weight hung at mid-span.

Give one deflection (mid-span) or three (quarter, half and three-quarter
span). The search starts from the uniform EI = P·L³ / (48·δ) and runs a
fixed budget of Nelder-Mead iterations unless another method is chosen.

Examples:
  # 4 segments, three readings
  gobatten calibrate --weight 2 --length 2000 --deflections 20,28,20 --segments 4

  # Converge with gonum's optimizer and write a PDF report
  gobatten calibrate -w 2 -l 2000 -d 20,28,20 -s 4 --method gonum --pdf report.pdf`,
	Run: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().Float64VarP(&calWeight, "weight", "w", 0, "Test weight (kg) [required]")
	calibrateCmd.Flags().Float64VarP(&calLength, "length", "l", 0, "Span (mm) [required]")
	calibrateCmd.Flags().Float64SliceVarP(&calDeflections, "deflections", "d", nil, "Measured deflections (mm): mid-span, or quarter,half,three-quarter [required]")
	calibrateCmd.Flags().IntVarP(&calSegments, "segments", "s", 4, "Number of segments (2, 3 or 4)")
	calibrateCmd.Flags().StringVar(&calMethod, "method", optim.MethodSimplex, "Optimizer: simplex or gonum")
	calibrateCmd.Flags().IntVar(&calIterations, "iterations", 0, "Simplex iteration budget (default 100)")
	calibrateCmd.Flags().StringVar(&calPDF, "pdf", "", "Write a PDF report to this file")
	calibrateCmd.Flags().StringVar(&calChart, "chart", "", "Export the fitted shape (png, svg or pdf)")
	calibrateCmd.Flags().StringVar(&calEIChart, "ei-chart", "", "Export the EI distribution (png, svg or pdf)")
	calibrateCmd.Flags().StringVar(&calProject, "project", "", "Project name for the report")
	calibrateCmd.Flags().StringVar(&calAuthor, "author", "", "Author for the report")

	calibrateCmd.MarkFlagRequired("weight")
	calibrateCmd.MarkFlagRequired("length")
	calibrateCmd.MarkFlagRequired("deflections")
}

// calibrateOptions turns the method flags into calibration options.
func calibrateOptions(method string, iterations int) ([]calibrate.Option, error) {
	if iterations > 0 {
		if method != "" && method != optim.MethodSimplex {
			return nil, fmt.Errorf("--iterations only applies to the simplex method")
		}
		return []calibrate.Option{calibrate.WithIterations(iterations)}, nil
	}
	m, err := optim.ByName(method)
	if err != nil {
		return nil, err
	}
	return []calibrate.Option{calibrate.WithMinimizer(m)}, nil
}

func runCalibrate(cmd *cobra.Command, args []string) {
	opts, err := calibrateOptions(calMethod, calIterations)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	p := calibrate.Problem{
		WeightKg:      calWeight,
		LengthMm:      calLength,
		DeflectionsMm: calDeflections,
		Segments:      calSegments,
	}
	res, err := calibrate.Calibrate(p, opts...)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     BATTEN STIFFNESS CALIBRATION")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Test weight:\t%.3f kg (%.3f N)\n", p.WeightKg, p.WeightKg*calibrate.Gravity)
	fmt.Fprintf(w, "  Span:\t%.1f mm\n", p.LengthMm)
	fmt.Fprintf(w, "  Segments:\t%d\n", p.Segments)
	positions, _ := p.Positions()
	for i, d := range p.DeflectionsMm {
		fmt.Fprintf(w, "  δ at %.2f L:\t%.3f mm\n", positions[i], d)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("FIT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Position\tMeasured\tModel\n")
	for i, f := range res.Positions {
		measured := measuredAt(p, f)
		fmt.Fprintf(w, "  %.2f L\t%.3f mm\t%.3f mm\n", f, measured, res.SimulatedMm[i])
	}
	w.Flush()
	fmt.Printf("  Residual: %.3e m² after %d iterations (%d evaluations)\n", res.Residual, res.Iterations, res.Evaluations)
	fmt.Println()

	fmt.Println(diagram.DrawSegmentBar(res.Stiffness, 40))

	lines := []string{fmt.Sprintf("Initial guess   %.4f N·m²", res.InitialGuess)}
	for i, ei := range res.Stiffness {
		lines = append(lines, fmt.Sprintf("EI segment %d    %.4f N·m²", i+1, ei))
	}
	lines = append(lines, fmt.Sprintf("Average EI      %.4f N·m²", res.Average))
	fmt.Print(diagram.DrawSummaryBox("CALIBRATED STIFFNESS", lines))
	fmt.Println()

	if calChart != "" {
		if err := exportFit(p, res, calChart); err != nil {
			fmt.Printf("Error exporting chart: %v\n", err)
		} else {
			fmt.Printf("  Chart saved to %s\n", calChart)
		}
	}
	if calEIChart != "" {
		if err := diagram.ExportStiffnessChart(res.Stiffness, p.LengthMm, calEIChart); err != nil {
			fmt.Printf("Error exporting chart: %v\n", err)
		} else {
			fmt.Printf("  Chart saved to %s\n", calEIChart)
		}
	}
	if calPDF != "" {
		if err := writeReport(p, res, calPDF); err != nil {
			fmt.Printf("Error writing report: %v\n", err)
		} else {
			fmt.Printf("  Report saved to %s\n", calPDF)
		}
	}
}

func measuredAt(p calibrate.Problem, f float64) float64 {
	positions, _ := p.Positions()
	for i, pos := range positions {
		if pos == f {
			return p.DeflectionsMm[i]
		}
	}
	return 0
}

func exportFit(p calibrate.Problem, res *calibrate.Result, filename string) error {
	sol, err := fem.Solve(fem.Model{Stiffness: res.Stiffness, Length: p.LengthMm / 1000, Load: p.WeightKg * calibrate.Gravity})
	if err != nil {
		return err
	}
	x, y := sol.Shape()
	chart := diagram.DeflectionChart{Title: "Calibrated Deflected Shape", X: scale(x, 1000), Y: scale(y, 1000)}
	positions, _ := p.Positions()
	for i, f := range positions {
		chart.MeasuredX = append(chart.MeasuredX, f*p.LengthMm)
		chart.MeasuredY = append(chart.MeasuredY, p.DeflectionsMm[i])
	}
	return diagram.ExportDeflectionChart(chart, filename)
}

func writeReport(p calibrate.Problem, res *calibrate.Result, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = report.WritePDF(f, report.Document{Project: calProject, Author: calAuthor, Problem: p, Result: res})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
