package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	inputs     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps profiles in a PostgreSQL table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenPostgres connects to the database at dsn and checks it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("profile: open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("profile: ping database: %w", err)
	}
	return db, nil
}

// NewPostgresStore returns a store using db. Call Migrate once before use.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// Migrate creates the profiles table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func scanProfile(sc interface{ Scan(...any) error }) (*Profile, error) {
	var (
		p   Profile
		raw []byte
	)
	if err := sc.Scan(&p.ID, &p.Name, &raw, &p.Date); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &p.Inputs); err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	return &p, nil
}

// List returns every profile, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, inputs, created_at FROM profiles ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ps []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		ps = append(ps, *p)
	}
	return ps, rows.Err()
}

// Get returns the profile with the given ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, inputs, created_at FROM profiles WHERE id=$1", id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// Save inserts p, or replaces the profile with the same ID.
func (s *PostgresStore) Save(ctx context.Context, p *Profile) error {
	if err := Prepare(p, s.now()); err != nil {
		return err
	}
	inputs, err := json.Marshal(p.Inputs)
	if err != nil {
		return err
	}
	query := `INSERT INTO profiles (id, name, inputs, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, inputs = EXCLUDED.inputs, created_at = EXCLUDED.created_at`
	_, err = s.db.ExecContext(ctx, query, p.ID, p.Name, inputs, p.Date)
	return err
}

// Delete removes the profile with the given ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
