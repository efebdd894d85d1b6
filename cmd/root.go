package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/gobatten/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gobatten",
	Short: "Sail Batten Stiffness Tool",
	Long: `gobatten - Go Sail Batten Stiffness Calculator

A CLI tool for working out the bending stiffness of sail battens
from simple three-point bend tests.

This tool helps sailmakers and riggers perform:
  - Forward deflection analysis of segmented battens (beam FEM)
  - Calibration of per-segment EI from measured deflections
  - Equivalent EI of composite battens
  - Three-point bend test evaluation and saved test profiles
  - Batch calibration from spreadsheets, PDF reports and an HTTP API

All beams are simply supported with the test load at mid-span.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gobatten v%-46s║\n", version.Version)
		fmt.Println("  ║   Go Sail Batten Stiffness Calculator                     ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for working out the bending stiffness of sail")
		fmt.Println("  battens from three-point bend tests.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Deflections of a segmented batten under a mid-span load")
		fmt.Println("    • Per-segment EI calibration from measured deflections")
		fmt.Println("    • Equivalent EI of composite battens")
		fmt.Println("    • Bend test profiles, batch runs, PDF reports and an HTTP API")
		fmt.Println()
		fmt.Println("  Use 'gobatten --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
