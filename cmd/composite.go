package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gobatten/internal/composite"
	"github.com/alexiusacademia/gobatten/internal/diagram"
	"github.com/spf13/cobra"
)

var (
	compositeSegments []string
	compositeFile     string
)

var compositeCmd = &cobra.Command{
	Use:   "composite",
	Short: "Compute the equivalent EI of a composite batten",
	Long: `Compute the constant EI that gives the same mid-span deflection as a
batten built from segments of different stiffness. Segments are listed
from one end; the batten is assumed symmetric, so only the first half of
the span is integrated.

Examples:
  # Two 1000 mm halves
  gobatten composite --segment 1000:2 --segment 1000:2

  # Segments from a JSON file: [{"length_mm":500,"ei_nm2":2}, ...]
  gobatten composite --file segments.json`,
	Run: runComposite,
}

func init() {
	rootCmd.AddCommand(compositeCmd)

	compositeCmd.Flags().StringArrayVar(&compositeSegments, "segment", nil, "Segment as LENGTH_MM:EI_NM2 (repeatable)")
	compositeCmd.Flags().StringVarP(&compositeFile, "file", "f", "", "JSON file with a list of segments")
}

func parseSegment(s string) (composite.Segment, error) {
	l, ei, ok := strings.Cut(s, ":")
	if !ok {
		return composite.Segment{}, fmt.Errorf("segment %q: want LENGTH_MM:EI_NM2", s)
	}
	length, err := strconv.ParseFloat(strings.TrimSpace(l), 64)
	if err != nil {
		return composite.Segment{}, fmt.Errorf("segment %q: length: %w", s, err)
	}
	stiffness, err := strconv.ParseFloat(strings.TrimSpace(ei), 64)
	if err != nil {
		return composite.Segment{}, fmt.Errorf("segment %q: EI: %w", s, err)
	}
	return composite.Segment{LengthMm: length, EI: stiffness}, nil
}

func loadSegments() ([]composite.Segment, error) {
	var segments []composite.Segment
	if compositeFile != "" {
		data, err := os.ReadFile(compositeFile)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &segments); err != nil {
			return nil, fmt.Errorf("%s: %w", compositeFile, err)
		}
	}
	for _, s := range compositeSegments {
		seg, err := parseSegment(s)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments given; use --segment or --file")
	}
	return segments, nil
}

func runComposite(cmd *cobra.Command, args []string) {
	segments, err := loadSegments()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	res, err := composite.Equivalent(segments)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     COMPOSITE BATTEN EQUIVALENT STIFFNESS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("SEGMENTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, s := range segments {
		fmt.Fprintf(w, "  Segment %d:\t%.1f mm\t%.4f N·m²\n", i+1, s.LengthMm, s.EI)
	}
	w.Flush()
	fmt.Println()

	lines := []string{
		fmt.Sprintf("Total length    %.1f mm", res.TotalLengthMm),
		fmt.Sprintf("Equivalent EI   %.4f N·m²", res.EquivalentEI),
	}
	if res.EquivalentEI == 0 {
		lines = append(lines, "⚠ zero or unbounded compliance in the half span")
	}
	fmt.Print(diagram.DrawSummaryBox("COMPOSITE RESULT", lines))
	fmt.Println()
}
