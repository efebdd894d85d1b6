package cmd

import (
	"context"

	"github.com/alexiusacademia/gobatten/internal/config"
	"github.com/alexiusacademia/gobatten/internal/profile"
)

// openStore returns the profile store selected by the configuration: the
// Postgres table when DATABASE_URL is set, the JSON file otherwise. The
// returned function releases it.
func openStore(ctx context.Context, cfg *config.Config) (profile.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return profile.NewFileStore(cfg.ProfilePath), func() {}, nil
	}
	db, err := profile.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store := profile.NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}
