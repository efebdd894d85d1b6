// Package profile stores named batten test measurements.
package profile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexiusacademia/gobatten/internal/batten"
)

// ErrNotFound is returned when no profile has the requested ID.
var ErrNotFound = errors.New("profile: not found")

// Profile is a saved set of bend test readings.
type Profile struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Inputs batten.Measurements `json:"inputs"`
	Date   time.Time           `json:"date"`
}

// Store persists profiles.
type Store interface {
	List(ctx context.Context) ([]Profile, error)
	Get(ctx context.Context, id string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id string) error
}

// Prepare validates p and fills in a missing ID and date.
func Prepare(p *Profile, now time.Time) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("profile: name is required")
	}
	if err := p.Inputs.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if p.ID == "" {
		id, err := newID(now)
		if err != nil {
			return err
		}
		p.ID = id
	}
	if p.Date.IsZero() {
		p.Date = now.UTC()
	}
	return nil
}

// newID returns a time-ordered ID with a random suffix, so profiles saved
// within the same clock tick stay distinct.
func newID(now time.Time) (string, error) {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("profile: generate id: %w", err)
	}
	return strconv.FormatInt(now.UnixNano(), 36) + "-" + hex.EncodeToString(b[:]), nil
}

// newestFirst orders profiles by descending date.
func newestFirst(ps []Profile) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Date.After(ps[j].Date)
	})
}
