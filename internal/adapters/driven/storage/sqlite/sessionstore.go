// Package sqlite provides a SQLite-backed session store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Session state is
// stored as a single JSON document in a key-value table, replaced
// wholesale on every save.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// DatabaseFile is the session database inside the config directory.
const DatabaseFile = "sessions.db"

// stateKey is the single key chat state is stored under.
const stateKey = "chat_state"

// SessionStore persists chat state in a SQLite key-value table.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore opens (or creates) the session database under
// configDir and ensures the schema exists.
func NewSessionStore(configDir string) (*SessionStore, error) {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	dbPath := filepath.Join(configDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	// Single-process CLI tool; one connection avoids lock contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SessionStore{db: db}, nil
}

// Load retrieves the stored chat state.
// Returns (nil, nil) when no state has been saved yet.
func (s *SessionStore) Load() (*domain.ChatState, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, stateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query chat state: %w", err)
	}

	var state domain.ChatState
	if err := json.Unmarshal([]byte(value), &state); err != nil {
		return nil, fmt.Errorf("%w: parse chat state: %v", domain.ErrParse, err)
	}
	return &state, nil
}

// Save stores the full chat state, replacing any previous value.
func (s *SessionStore) Save(state *domain.ChatState) error {
	if state == nil {
		return domain.ErrInvalidInput
	}

	value, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal chat state: %w", err)
	}

	if _, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, stateKey, string(value)); err != nil {
		return fmt.Errorf("save chat state: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
