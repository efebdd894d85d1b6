package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gobatten/internal/report"
	"github.com/spf13/cobra"
)

var (
	batchFile       string
	batchOutput     string
	batchMethod     string
	batchIterations int
)

var calibrateBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Calibrate every batten listed in a spreadsheet",
	Long: `Read an .xlsx workbook whose first sheet lists one batten per row:

  name | segments | weight_kg | length_mm | d1 | d2 | d3

The first row is a header. Give d2 alone (or d1 alone) for a mid-span
reading, or all three for quarter, half and three-quarter span.
Results are printed and, with --output, written to a new workbook.

Examples:
  gobatten calibrate batch --file tests.xlsx --output results.xlsx`,
	Run: runCalibrateBatch,
}

func init() {
	calibrateCmd.AddCommand(calibrateBatchCmd)

	calibrateBatchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Input workbook (.xlsx) [required]")
	calibrateBatchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Output workbook (.xlsx)")
	calibrateBatchCmd.Flags().StringVar(&batchMethod, "method", "simplex", "Optimizer: simplex or gonum")
	calibrateBatchCmd.Flags().IntVar(&batchIterations, "iterations", 0, "Simplex iteration budget (default 100)")

	calibrateBatchCmd.MarkFlagRequired("file")
}

func runCalibrateBatch(cmd *cobra.Command, args []string) {
	opts, err := calibrateOptions(batchMethod, batchIterations)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	in, err := os.Open(batchFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	rows, err := report.ReadBatch(in)
	in.Close()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	results := report.RunBatch(rows, opts...)

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     BATCH CALIBRATION")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Row\tName\tSegments\tAverage EI\tResidual\n")
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "  %d\t%s\t%d\t-\t%v\n", r.Row.Line, r.Row.Name, r.Row.Problem.Segments, r.Err)
			continue
		}
		fmt.Fprintf(w, "  %d\t%s\t%d\t%.4f N·m²\t%.3e\n", r.Row.Line, r.Row.Name, r.Row.Problem.Segments, r.Result.Average, r.Result.Residual)
	}
	w.Flush()
	fmt.Println()
	fmt.Printf("  %d calibrated, %d failed\n", len(results)-failed, failed)

	if batchOutput != "" {
		out, err := os.Create(batchOutput)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		err = report.WriteBatch(out, results)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("  Results saved to %s\n", batchOutput)
	}
	fmt.Println()
}
