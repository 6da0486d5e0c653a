// Package settings persists the durable settings/cache document: credentials,
// the ClickUp space/list tree, the course ignore list, and the last course
// pull date.
//
// The document is a flat JSON file following the load → mutate → write
// contract. Mutations hold a scoped file lock across the whole cycle so
// concurrent processes (CLI and server against the same document) cannot
// interleave partial writes or discard each other's mutations.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"duesync/internal/models"
)

// StalenessWindow is how long the cached course list stays fresh before the
// next load triggers a Canvas pull.
const StalenessWindow = 30 * 24 * time.Hour

// Document is the full persistent file shape.
type Document struct {
	Settings     models.Settings `json:"settings"`
	LastPullDate *time.Time      `json:"lastPullDate"`
}

// CoursesStale reports whether the course cache needs a refresh at the given
// instant. A missing pull date always counts as stale.
func (d *Document) CoursesStale(now time.Time) bool {
	if d.LastPullDate == nil {
		return true
	}
	return now.Sub(*d.LastPullDate) > StalenessWindow
}

// Store reads and writes the settings document at a fixed path.
type Store struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

// NewStore creates a store for the document at path. The file is created
// with an empty document on first save.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document from disk under a shared file lock. A missing file
// yields an empty document rather than an error, matching first-run behavior.
func (s *Store) Load() (*Document, error) {
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock settings file: %w", err)
	}
	defer s.lock.Unlock()

	return s.read()
}

func (s *Store) read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return &doc, nil
}

// Save writes the document to disk under the file lock.
func (s *Store) Save(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock settings file: %w", err)
	}
	defer s.lock.Unlock()

	return s.write(doc)
}

// Mutate applies fn to a freshly loaded document and persists the result.
// The file lock is held across the whole load → mutate → write sequence, so
// a concurrent process (CLI against a running server) cannot load the old
// document mid-cycle and discard this mutation. A failing fn leaves the
// file untouched.
func (s *Store) Mutate(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock settings file: %w", err)
	}
	defer s.lock.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *Store) write(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
