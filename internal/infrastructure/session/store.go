// Package session provides the SQLite-backed session context: populated at
// login, read by the controllers, cleared at logout.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/billedhq/expense-client/internal/application/port"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_values (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is a persistent key/value session context. It implements
// port.SessionContext for the read side and exposes the write-side
// lifecycle operations used by the login and logout surfaces.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore opens (creating if needed) the session database at path.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Get implements port.SessionContext.
func (s *Store) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session_values WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.logger.Error("Failed to read session value",
			zap.String("key", key),
			zap.Error(err))
		return "", false
	}
	return value, true
}

// Put stores a session value, replacing any previous one.
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_values (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("store session value: %w", err)
	}
	return nil
}

// PutUser stores the authenticated user under the well-known user key.
func (s *Store) PutUser(user port.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.Put(port.UserKey, string(data)); err != nil {
		return err
	}
	s.logger.Info("Session user stored", zap.String("email", user.Email))
	return nil
}

// Clear removes all session values. Called at logout.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session_values`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info("Session cleared")
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
