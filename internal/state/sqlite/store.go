// Package sqlite implements the session store on an embedded SQLite
// database, so expansion snapshots survive across runs.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store implements state.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// New opens (or creates) the session database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize session database: %w", err)
	}
	return s, nil
}

// NewInMemory creates an in-memory store, useful for testing.
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize in-memory database: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS expansion_state (
			fingerprint TEXT PRIMARY KEY,
			paths       TEXT NOT NULL,
			updated_at  DATETIME NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveExpansion upserts the expansion snapshot for one bundle.
func (s *Store) SaveExpansion(fingerprint string, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}

	data, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("marshal expansion paths: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO expansion_state (fingerprint, paths, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			paths = excluded.paths,
			updated_at = excluded.updated_at
	`, fingerprint, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save expansion state: %w", err)
	}
	return nil
}

// LoadExpansion returns the stored snapshot for fingerprint, or nil when no
// snapshot exists.
func (s *Store) LoadExpansion(fingerprint string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	var data string
	err := s.db.QueryRow(
		`SELECT paths FROM expansion_state WHERE fingerprint = ?`, fingerprint,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load expansion state: %w", err)
	}

	var paths []string
	if err := json.Unmarshal([]byte(data), &paths); err != nil {
		return nil, fmt.Errorf("unmarshal expansion paths: %w", err)
	}
	return paths, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
