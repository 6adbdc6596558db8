// Package history keeps an append-only log of created release branches.
// The log lives in ~/.relcut/history.json and backs "relcut history".
package history

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/raphi011/relcut/internal/lock"
	"github.com/raphi011/relcut/internal/log"
	"github.com/raphi011/relcut/internal/release"
	"github.com/raphi011/relcut/internal/storage"
)

// FileName is the history file inside the relcut data directory.
const FileName = "history.json"

// Entry records one created release branch.
type Entry struct {
	Project    string    `json:"project"`
	Version    string    `json:"version"`
	Branch     string    `json:"branch"`
	Suggested  string    `json:"suggested"`
	Overridden bool      `json:"overridden,omitempty"`
	Dir        string    `json:"dir"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store reads and appends entries of a history file.
type Store struct {
	path string
	now  func() time.Time
}

// Open returns the Store for the default history file.
func Open() (*Store, error) {
	dir, err := storage.Dir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(dir, FileName)), nil
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns all entries, oldest first.
// A missing or corrupted file yields an empty history.
func (s *Store) Load(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := storage.LoadJSON(s.path, &entries)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		// corrupted - start fresh
		log.FromContext(ctx).Warnf("ignoring unreadable history %s: %v\n", s.path, err)
		return nil, nil
	}
	return entries, nil
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	recent := make([]Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if limit > 0 && len(recent) == limit {
			break
		}
		recent = append(recent, entries[i])
	}
	return recent, nil
}

// Append adds e to the history. A zero CreatedAt is set to now.
func (s *Store) Append(ctx context.Context, e Entry) error {
	l := lock.New(s.path + ".lock")
	if err := l.Lock(); err != nil {
		return err
	}
	defer l.Unlock()

	entries, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	return storage.SaveJSON(s.path, append(entries, e))
}

// Record appends a completed release selection.
func (s *Store) Record(ctx context.Context, sel release.Selection) error {
	return s.Append(ctx, Entry{
		Project:    sel.Project,
		Version:    sel.Version,
		Branch:     sel.Branch,
		Suggested:  sel.Suggested,
		Overridden: sel.Overridden,
		Dir:        sel.Dir,
	})
}
