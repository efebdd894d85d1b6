package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps profiles in a single JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileStore returns a store backed by path. The file is created on the
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (s *FileStore) load() ([]Profile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var ps []Profile
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("profile: parse %s: %w", s.path, err)
	}
	return ps, nil
}

func (s *FileStore) write(ps []Profile) error {
	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("profile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("profile: write: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// List returns every profile, newest first.
func (s *FileStore) List(ctx context.Context) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, err := s.load()
	if err != nil {
		return nil, err
	}
	newestFirst(ps)
	return ps, nil
}

// Get returns the profile with the given ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range ps {
		if ps[i].ID == id {
			return &ps[i], nil
		}
	}
	return nil, ErrNotFound
}

// Save inserts p, or replaces the profile with the same ID.
func (s *FileStore) Save(ctx context.Context, p *Profile) error {
	if err := Prepare(p, s.now()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range ps {
		if ps[i].ID == p.ID {
			ps[i] = *p
			replaced = true
			break
		}
	}
	if !replaced {
		ps = append(ps, *p)
	}
	return s.write(ps)
}

// Delete removes the profile with the given ID.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, err := s.load()
	if err != nil {
		return err
	}
	for i := range ps {
		if ps[i].ID == id {
			return s.write(append(ps[:i], ps[i+1:]...))
		}
	}
	return ErrNotFound
}
