package config

import (
	"os"
	"path/filepath"
	"testing"
)

var keys = []string{"GOBATTEN_ADDR", "GOBATTEN_PROFILES", "DATABASE_URL", "TOKEN_KEY", "GOBATTEN_RATE", "GOBATTEN_BURST"}

// clearEnv blanks every variable Load reads; t.Setenv restores them after
// the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr != DefaultAddr || c.ProfilePath != DefaultProfiles {
		t.Errorf("got %+v", c)
	}
	if c.Rate != DefaultRate || c.Burst != DefaultBurst || c.TokenKey != nil || c.DatabaseURL != "" {
		t.Errorf("got %+v", c)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	data := "GOBATTEN_ADDR=:9000\nTOKEN_KEY=secret\nGOBATTEN_RATE=2.5\nGOBATTEN_BURST=4\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOBATTEN_ADDR", ":7000") // environment wins over the file

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr != ":7000" {
		t.Errorf("addr %q, want :7000", c.Addr)
	}
	if string(c.TokenKey) != "secret" || c.Rate != 2.5 || c.Burst != 4 {
		t.Errorf("got %+v", c)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	tests := []struct{ key, value string }{
		{"GOBATTEN_RATE", "fast"},
		{"GOBATTEN_RATE", "-1"},
		{"GOBATTEN_BURST", "1.5"},
		{"GOBATTEN_BURST", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(filepath.Join(t.TempDir(), "none.env")); err == nil {
				t.Error("expected error")
			}
		})
	}
}
