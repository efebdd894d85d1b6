package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gobatten/internal/diagram"
	"github.com/alexiusacademia/gobatten/internal/section"
	"github.com/spf13/cobra"
)

var (
	sectionFile    string
	sectionWidth   float64
	sectionHeight  float64
	sectionModulus float64
	sectionExport  string
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Compute the EI of a batten cross-section",
	Long: `Compute the flexural rigidity EI of a batten from its cross-section
and the Young's modulus of its material. The result can be used as the
EI of a segment in 'forward' or 'composite'.

Give a rectangle with --width and --height, or any polygon in a JSON file.

Example JSON file structure:
{
  "name": "Tapered glass batten",
  "modulus_gpa": 40,
  "vertices": [
    {"x": 0, "y": 0},
    {"x": 25, "y": 0},
    {"x": 24, "y": 5},
    {"x": 1, "y": 5}
  ]
}

Examples:
  gobatten section --width 30 --height 6 --modulus 20
  gobatten section --file batten.json --output section.png`,
	Run: runSection,
}

func init() {
	rootCmd.AddCommand(sectionCmd)

	sectionCmd.Flags().StringVarP(&sectionFile, "file", "f", "", "Path to section JSON file")
	sectionCmd.Flags().Float64VarP(&sectionWidth, "width", "b", 0, "Rectangle width (mm)")
	sectionCmd.Flags().Float64Var(&sectionHeight, "height", 0, "Rectangle thickness (mm)")
	sectionCmd.Flags().Float64VarP(&sectionModulus, "modulus", "e", 0, "Young's modulus (GPa)")
	sectionCmd.Flags().StringVarP(&sectionExport, "output", "o", "", "Export the outline to file (png, svg, pdf)")
}

func loadSection() (*section.Section, error) {
	if sectionFile != "" {
		return section.LoadFromFile(sectionFile)
	}
	s := section.Rectangle("Rectangle", sectionWidth, sectionHeight, sectionModulus)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func runSection(cmd *cobra.Command, args []string) {
	sec, err := loadSection()
	if err != nil {
		fmt.Printf("Error loading section: %v\n", err)
		return
	}
	props := sec.CalculateProperties()

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     BATTEN SECTION STIFFNESS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	if sec.Name != "" {
		fmt.Printf("  Section: %s\n", sec.Name)
	}
	if sec.Description != "" {
		fmt.Printf("  Description: %s\n", sec.Description)
	}
	fmt.Println()

	fmt.Println("SECTION PROPERTIES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Width:\t%.2f mm\n", props.Width)
	fmt.Fprintf(w, "  Thickness:\t%.2f mm\n", props.Height)
	fmt.Fprintf(w, "  Area:\t%.2f mm²\n", props.Area)
	fmt.Fprintf(w, "  Centroid:\t(%.2f, %.2f) mm\n", props.CentroidX, props.CentroidY)
	fmt.Fprintf(w, "  Width at centroid:\t%.2f mm\n", sec.WidthAtY(props.CentroidY))
	fmt.Fprintf(w, "  Second moment (I):\t%.2f mm⁴\n", props.Inertia)
	fmt.Fprintf(w, "  Modulus (E):\t%.1f GPa\n", sec.ModulusGPa)
	w.Flush()
	fmt.Println()

	fmt.Print(diagram.DrawSummaryBox("FLEXURAL RIGIDITY", []string{
		fmt.Sprintf("EI = %.4f N·m²", props.EI),
	}))
	fmt.Println()

	if sectionExport != "" {
		outline := make([]diagram.Point, len(sec.Vertices))
		for i, v := range sec.Vertices {
			outline[i] = diagram.Point{X: v.X, Y: v.Y}
		}
		if err := diagram.ExportSectionOutline(outline, props.CentroidY, sectionExport); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
			return
		}
		fmt.Printf("  Diagram exported to %s\n\n", sectionExport)
	}
}
