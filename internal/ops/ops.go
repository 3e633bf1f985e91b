package ops

import (
	"context"
	"database/sql"
	"time"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	MaxSearchResults = 20
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Store is the single owned handle to bookmark storage. Chat handling and
// session bootstrap go through it; nothing else touches the tables.
type Store struct {
	db *sql.DB
}

// NewStore wraps an initialized database.
func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

// Resolve returns the link of the active bookmark for handle.
func (s *Store) Resolve(ctx context.Context, handle string) (string, error) {
	out, err := Resolve(ctx, s.db, ResolveInput{Handle: handle})
	if err != nil {
		return "", err
	}
	return out.Link, nil
}

// Create adds an active bookmark, failing with ALREADY_EXISTS when one is active.
func (s *Store) Create(ctx context.Context, handle, link string) error {
	_, err := Create(ctx, s.db, CreateInput{Handle: handle, Link: link})
	return err
}

// Deactivate soft-deletes the active bookmark for handle and reports how many
// rows were flipped.
func (s *Store) Deactivate(ctx context.Context, handle string) (int64, error) {
	out, err := Deactivate(ctx, s.db, DeactivateInput{Handle: handle})
	if err != nil {
		return 0, err
	}
	return out.Deactivated, nil
}

// Search returns active handles matching pattern.
func (s *Store) Search(ctx context.Context, pattern string) (*SearchOutput, error) {
	return Search(ctx, s.db, SearchInput{Pattern: pattern})
}

// LastRun returns the recorded last start time; found is false on first run.
func (s *Store) LastRun(ctx context.Context) (string, bool, error) {
	return LastRun(ctx, s.db)
}

// TouchLastRun records now as the last start time.
func (s *Store) TouchLastRun(ctx context.Context, now time.Time) error {
	return TouchLastRun(ctx, s.db, now)
}
