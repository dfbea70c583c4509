// Package habits provides read-only access to the habit tracker's record
// store. The timer engine never mutates habits; it only resolves display
// names when constructing wake payloads and alarm labels.
package habits

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// LabelLookup resolves a tracked entity's display name.
type LabelLookup interface {
	// DisplayName returns the habit's name and true, or "" and false when
	// the entity is unknown.
	DisplayName(entityId string) (string, bool)
}

const habitsSchema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	archived INTEGER NOT NULL DEFAULT 0
);
`

// Store reads habit display names from the tracker's SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens the habit database at path, creating the schema if the file
// is new so the daemon can run before any habits exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open habits db: %w", err)
	}
	if _, err := db.Exec(habitsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init habits schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DisplayName looks up the habit's name. Unknown ids and query failures
// both report false; callers fall back to the raw entity id.
func (s *Store) DisplayName(entityId string) (string, bool) {
	var name string
	err := s.db.QueryRow(`SELECT name FROM habits WHERE id = ?`, entityId).Scan(&name)
	if err != nil {
		return "", false
	}
	return name, true
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StaticLookup is a map-backed LabelLookup for tests and standalone runs.
type StaticLookup map[string]string

// DisplayName implements LabelLookup.
func (m StaticLookup) DisplayName(entityId string) (string, bool) {
	name, ok := m[entityId]
	return name, ok
}

var (
	_ LabelLookup = (*Store)(nil)
	_ LabelLookup = (StaticLookup)(nil)
)
