package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gobatten/internal/batten"
	"github.com/alexiusacademia/gobatten/internal/config"
	"github.com/alexiusacademia/gobatten/internal/diagram"
	"github.com/alexiusacademia/gobatten/internal/profile"
	"github.com/spf13/cobra"
)

var (
	testWeight   float64
	testLength   float64
	testSelf     []float64
	testWeighted []float64
	testProfile  string
	testSave     string
	testChart    string
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Evaluate a three-point batten bend test",
	Long: `Evaluate a bend test read at quarter, half and three-quarter span,
once with the batten unloaded and once with the test weight hung at
mid-span. Reports camber, average EI, the front/back deflection ratios
and the draft position, and plots the bend profile.

Examples:
  gobatten test --weight 2 --length 2000 --self 10,12,11 --weighted 40,52,35

  # Save the readings as a named profile, or rerun a saved one
  gobatten test -w 2 -l 2000 --self 10,12,11 --weighted 40,52,35 --save "Top batten"
  gobatten test --profile <id>`,
	Run: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().Float64VarP(&testWeight, "weight", "w", 0, "Test weight (kg)")
	testCmd.Flags().Float64VarP(&testLength, "length", "l", 0, "Distance between supports (mm)")
	testCmd.Flags().Float64SliceVar(&testSelf, "self", nil, "Unloaded readings at 1/4, 1/2, 3/4 span (mm)")
	testCmd.Flags().Float64SliceVar(&testWeighted, "weighted", nil, "Loaded readings at 1/4, 1/2, 3/4 span (mm)")
	testCmd.Flags().StringVar(&testProfile, "profile", "", "Use the readings of a saved profile")
	testCmd.Flags().StringVar(&testSave, "save", "", "Save the readings as a profile with this name")
	testCmd.Flags().StringVar(&testChart, "chart", "", "Export the bend profile (png, svg or pdf)")
}

func measurementsFromFlags() (batten.Measurements, error) {
	m := batten.Measurements{TestWeightKg: testWeight, TestLengthMm: testLength}
	if len(testSelf) != 3 || len(testWeighted) != 3 {
		return m, fmt.Errorf("--self and --weighted need three readings each")
	}
	copy(m.Self[:], testSelf)
	copy(m.Weighted[:], testWeighted)
	return m, nil
}

func runTest(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	var store profile.Store
	if testProfile != "" || testSave != "" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		s, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer closeStore()
		store = s
	}

	var (
		m   batten.Measurements
		err error
	)
	if testProfile != "" {
		p, err := store.Get(ctx, testProfile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		m = p.Inputs
		fmt.Printf("\n  Profile: %s (%s)\n", p.Name, p.Date.Format("2006-01-02"))
	} else if m, err = measurementsFromFlags(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	a, err := batten.Analyze(m)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printAnalysis(m, a)

	curve := batten.Curve(m, 0)
	ys := make([]float64, len(curve))
	for i, pt := range curve {
		ys[i] = pt.Y
	}
	fmt.Println(diagram.DrawASCIICurve(ys, "bend profile (mm)"))
	fmt.Println()

	if testChart != "" {
		chart := diagram.DeflectionChart{Title: "Bend Profile"}
		for _, pt := range curve {
			chart.X = append(chart.X, pt.X)
			chart.Y = append(chart.Y, pt.Y)
		}
		for _, pt := range batten.ControlPoints(m)[1:4] {
			chart.MeasuredX = append(chart.MeasuredX, pt.X)
			chart.MeasuredY = append(chart.MeasuredY, pt.Y)
		}
		if err := diagram.ExportDeflectionChart(chart, testChart); err != nil {
			fmt.Printf("Error exporting chart: %v\n", err)
		} else {
			fmt.Printf("  Chart saved to %s\n", testChart)
		}
	}

	if testSave != "" {
		p := &profile.Profile{Name: testSave, Inputs: m}
		if err := store.Save(ctx, p); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("  Saved profile %q with id %s\n\n", p.Name, p.ID)
	}
}

func printAnalysis(m batten.Measurements, a *batten.Analysis) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     THREE-POINT BATTEN BEND TEST")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("READINGS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Test weight:\t%.3f kg\n", m.TestWeightKg)
	fmt.Fprintf(w, "  Test length:\t%.1f mm\n", m.TestLengthMm)
	fmt.Fprintf(w, "  \t1/4 L\t1/2 L\t3/4 L\n")
	fmt.Fprintf(w, "  Unloaded:\t%.1f\t%.1f\t%.1f\n", m.Self[0], m.Self[1], m.Self[2])
	fmt.Fprintf(w, "  Loaded:\t%.1f\t%.1f\t%.1f\n", m.Weighted[0], m.Weighted[1], m.Weighted[2])
	w.Flush()
	fmt.Println()

	fmt.Print(diagram.DrawSummaryBox("BEND PROFILE", []string{
		fmt.Sprintf("Deflection      %.1f mm", a.Deflection),
		fmt.Sprintf("Camber          %.2f %%", a.CamberPercent),
		fmt.Sprintf("Average EI      %.2f N·m²", a.AverageEI),
		fmt.Sprintf("Front / back    %.0f %% / %.0f %%", a.FrontPercent, a.BackPercent),
		fmt.Sprintf("Draft position  %.1f %%", a.DraftPosition),
	}))
	fmt.Println()
}
