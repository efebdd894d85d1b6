package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gobatten/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gobatten",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gobatten v%s\n", version.Version)
		fmt.Printf("Built %s from commit %s\n", version.BuildTime, version.GitCommit)
		fmt.Println("Sail Batten Stiffness Tool")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
