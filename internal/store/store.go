// package store persists the session credential and identity across process restarts.
//
// The backing table is a two-column key-value store, the CLI's analogue of the
// durable browser storage the web clients use for the same purpose.
package store

import (
	"database/sql"
	"fmt"
	"sync"
)

// Storage keys. The names match the gateway web clients so a reader can line
// the two up when debugging.
const (
	tokenKey    = "access_token"
	identityKey = "session_email"
)

// Store is the credential store contract.
//
// Token and Identity return "" when nothing is stored; first use against an
// empty database is never an error. SetToken("") is equivalent to Clear and
// drops the identity in the same operation, so a non-empty identity can never
// outlive a non-empty credential.
type Store interface {
	Token() string
	SetToken(token string) error
	Identity() string
	SetIdentity(identity string) error
	Clear() error
}

// DB is a Store backed by a SQLite database.
type DB struct {
	db *sql.DB
}

// NewDB creates a credential store on the given database connection and
// ensures the backing table exists.
func NewDB(db *sql.DB) (*DB, error) {
	query := `
		CREATE TABLE IF NOT EXISTS session (key TEXT PRIMARY KEY, value TEXT NOT NULL)
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}
	return &DB{db: db}, nil
}

func (s *DB) read(key string) string {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

func (s *DB) write(key, value string) error {
	query := `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Token returns the stored access credential, or "" when signed out.
func (s *DB) Token() string {
	return s.read(tokenKey)
}

// SetToken stores the access credential. An empty token clears the whole session.
func (s *DB) SetToken(token string) error {
	if token == "" {
		return s.Clear()
	}
	return s.write(tokenKey, token)
}

// Identity returns the signed-in user's email, or "" when absent.
func (s *DB) Identity() string {
	return s.read(identityKey)
}

// SetIdentity stores the signed-in user's email. Empty removes it.
func (s *DB) SetIdentity(identity string) error {
	if identity == "" {
		if _, err := s.db.Exec(`DELETE FROM session WHERE key = ?`, identityKey); err != nil {
			return fmt.Errorf("failed to clear identity: %w", err)
		}
		return nil
	}
	return s.write(identityKey, identity)
}

// Clear removes the credential and the identity in one operation.
func (s *DB) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Memory is an in-process Store used by tests and one-shot commands that
// should not touch the durable database.
type Memory struct {
	mu       sync.Mutex
	token    string
	identity string
}

// NewMemory creates an empty in-memory credential store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Memory) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		m.token = ""
		m.identity = ""
		return nil
	}
	m.token = token
	return nil
}

func (m *Memory) Identity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

func (m *Memory) SetIdentity(identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = identity
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.identity = ""
	return nil
}
