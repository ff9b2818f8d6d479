// Package state persists the inbox watermark between runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/allenhutchison/github-activity-reporter/internal/log"
)

// defaultLookback is how far back a fresh install looks on its first run.
const defaultLookback = 24 * time.Hour

// fileState is the on-disk shape of the state file.
type fileState struct {
	LastRunAt time.Time `json:"last_run_at"`
}

// Store reads and writes the last-run watermark.
type Store struct {
	path string
}

// NewStore creates a store at the default per-user location.
func NewStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, "github-activity-reporter", "state.json")}, nil
}

// NewStoreAt creates a store at an explicit path, used by tests.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// LastRun returns the watermark from the previous successful run. A missing
// or unreadable state file falls back to a 24 hour lookback so a fresh
// install still produces a useful first inbox.
func (s *Store) LastRun() time.Time {
	fallback := time.Now().UTC().Add(-defaultLookback)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("could not read state file", "path", s.path, "error", err)
		}
		return fallback
	}

	var st fileState
	if err := json.Unmarshal(raw, &st); err != nil {
		log.Warn("corrupt state file, using default lookback", "path", s.path, "error", err)
		return fallback
	}
	if st.LastRunAt.IsZero() {
		return fallback
	}
	return st.LastRunAt
}

// SetLastRun writes the watermark atomically: the new content lands in a
// temp file first and replaces the old state in one rename. A run that dies
// mid-write leaves the previous watermark intact.
func (s *Store) SetLastRun(at time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	raw, err := json.MarshalIndent(fileState{LastRunAt: at.UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
