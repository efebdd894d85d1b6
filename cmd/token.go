package cmd

import (
	"fmt"
	"time"

	"github.com/alexiusacademia/gobatten/internal/config"
	"github.com/alexiusacademia/gobatten/internal/server"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the HTTP API",
	Long: `Sign a bearer token with TOKEN_KEY for profile writes on 'gobatten serve'.

Examples:
  TOKEN_KEY=secret gobatten token --subject loft --ttl 720h`,
	Run: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "gobatten", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "Token lifetime")
}

func runToken(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if cfg.TokenKey == nil {
		fmt.Println("Error: TOKEN_KEY is not set")
		return
	}
	token, err := server.IssueToken(cfg.TokenKey, tokenSubject, tokenTTL)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(token)
}
