// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultAddr     = ":8080"
	DefaultProfiles = "profiles.json"
	DefaultRate     = 5
	DefaultBurst    = 10
)

// Config holds the settings of the HTTP server and profile store.
type Config struct {
	Addr        string  // GOBATTEN_ADDR
	ProfilePath string  // GOBATTEN_PROFILES
	DatabaseURL string  // DATABASE_URL; selects the Postgres store when set
	TokenKey    []byte  // TOKEN_KEY; enables the JWT guard when set
	Rate        float64 // GOBATTEN_RATE, requests per second per client
	Burst       int     // GOBATTEN_BURST
}

// Load reads the given .env files (".env" when none are named) into the
// environment, then builds a Config from it. Missing files are ignored;
// variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", f, err)
		}
	}

	c := &Config{
		Addr:        getenv("GOBATTEN_ADDR", DefaultAddr),
		ProfilePath: getenv("GOBATTEN_PROFILES", DefaultProfiles),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Rate:        DefaultRate,
		Burst:       DefaultBurst,
	}
	if key := os.Getenv("TOKEN_KEY"); key != "" {
		c.TokenKey = []byte(key)
	}

	if v := os.Getenv("GOBATTEN_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("config: GOBATTEN_RATE must be a positive number, got %q", v)
		}
		c.Rate = r
	}
	if v := os.Getenv("GOBATTEN_BURST"); v != "" {
		b, err := strconv.Atoi(v)
		if err != nil || b <= 0 {
			return nil, fmt.Errorf("config: GOBATTEN_BURST must be a positive integer, got %q", v)
		}
		c.Burst = b
	}
	return c, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
