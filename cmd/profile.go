package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gobatten/internal/batten"
	"github.com/alexiusacademia/gobatten/internal/config"
	"github.com/alexiusacademia/gobatten/internal/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved bend test profiles",
	Long: `List, show, save and delete named bend test profiles.

Profiles are kept in the JSON file named by GOBATTEN_PROFILES
(default profiles.json), or in PostgreSQL when DATABASE_URL is set.
Both can be given in a .env file.

Subcommands:
  list    - List saved profiles, newest first
  show    - Show one profile with its bend analysis
  save    - Save readings under a name
  delete  - Delete a profile`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Run:   runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved profile",
	Args:  cobra.ExactArgs(1),
	Run:   runProfileShow,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save bend test readings as a profile",
	Long: `Save bend test readings under a name.

Examples:
  gobatten profile save "Top batten" -w 2 -l 2000 --self 10,12,11 --weighted 40,52,35`,
	Args: cobra.ExactArgs(1),
	Run:  runProfileSave,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved profile",
	Args:  cobra.ExactArgs(1),
	Run:   runProfileDelete,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileDeleteCmd)

	profileSaveCmd.Flags().Float64VarP(&testWeight, "weight", "w", 0, "Test weight (kg) [required]")
	profileSaveCmd.Flags().Float64VarP(&testLength, "length", "l", 0, "Distance between supports (mm) [required]")
	profileSaveCmd.Flags().Float64SliceVar(&testSelf, "self", nil, "Unloaded readings at 1/4, 1/2, 3/4 span (mm) [required]")
	profileSaveCmd.Flags().Float64SliceVar(&testWeighted, "weighted", nil, "Loaded readings at 1/4, 1/2, 3/4 span (mm) [required]")

	profileSaveCmd.MarkFlagRequired("weight")
	profileSaveCmd.MarkFlagRequired("length")
	profileSaveCmd.MarkFlagRequired("self")
	profileSaveCmd.MarkFlagRequired("weighted")
}

// withStore opens the configured store, runs fn and reports any error.
func withStore(fn func(ctx context.Context, s profile.Store) error) {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer closeStore()
	if err := fn(ctx, store); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func runProfileList(cmd *cobra.Command, args []string) {
	withStore(func(ctx context.Context, s profile.Store) error {
		ps, err := s.List(ctx)
		if err != nil {
			return err
		}
		if len(ps) == 0 {
			fmt.Println("No saved profiles.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  ID\tName\tDate\tWeight\tLength\n")
		for _, p := range ps {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%.2f kg\t%.0f mm\n",
				p.ID, p.Name, p.Date.Format("2006-01-02 15:04"), p.Inputs.TestWeightKg, p.Inputs.TestLengthMm)
		}
		return w.Flush()
	})
}

func runProfileShow(cmd *cobra.Command, args []string) {
	withStore(func(ctx context.Context, s profile.Store) error {
		p, err := s.Get(ctx, args[0])
		if err != nil {
			return err
		}
		a, err := batten.Analyze(p.Inputs)
		if err != nil {
			return err
		}
		fmt.Printf("\n  Profile: %s (%s)\n", p.Name, p.Date.Format("2006-01-02"))
		printAnalysis(p.Inputs, a)
		return nil
	})
}

func runProfileSave(cmd *cobra.Command, args []string) {
	m, err := measurementsFromFlags()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	withStore(func(ctx context.Context, s profile.Store) error {
		p := &profile.Profile{Name: args[0], Inputs: m}
		if err := s.Save(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Saved profile %q with id %s\n", p.Name, p.ID)
		return nil
	})
}

func runProfileDelete(cmd *cobra.Command, args []string) {
	withStore(func(ctx context.Context, s profile.Store) error {
		if err := s.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted profile %s\n", args[0])
		return nil
	})
}
