package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexiusacademia/gobatten/internal/config"
	"github.com/alexiusacademia/gobatten/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculators as a JSON HTTP API",
	Long: `Start the HTTP API. Settings come from the environment, optionally
seeded from a .env file:

  GOBATTEN_ADDR      listen address (default :8080)
  GOBATTEN_PROFILES  profile JSON file (default profiles.json)
  DATABASE_URL       store profiles in PostgreSQL instead
  TOKEN_KEY          require a bearer token for profile writes
  GOBATTEN_RATE      requests per second per client (default 5)
  GOBATTEN_BURST     burst size per client (default 10)

Endpoints:
  POST   /api/forward  /api/calibrate  /api/composite  /api/test
  POST   /api/report/pdf
  GET    /api/profiles  /api/profiles/{id}
  POST   /api/profiles
  DELETE /api/profiles/{id}`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides GOBATTEN_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer closeStore()

	if cfg.TokenKey == nil {
		log.Println("TOKEN_KEY not set, profile writes are unauthenticated")
	}
	if err := server.New(store, cfg).Run(ctx, cfg.Addr); err != nil {
		log.Printf("Server error: %v", err)
	}
}
