// Package session persists the local login state: the bearer token under
// the "jwt" key and the JSON-serialized current user under the "user" key.
// The store is the only locally-authoritative piece of state; everything
// else is owned by the remote API.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tyha2404/nexo-app/internal/core"
	"github.com/tyha2404/nexo-app/internal/log"

	_ "modernc.org/sqlite"
)

// Storage keys. External contract: keep in sync with the server-issued
// mobile clients, which use the same names.
const (
	TokenKey = "jwt"
	UserKey  = "user"
)

type Store struct {
	db     *sql.DB
	logger *log.Logger
}

func NewStore(dbPath string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create session db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentSession)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Token returns the stored bearer token, or the empty string when no
// token is present. Read failures are treated as "absent".
func (s *Store) Token(ctx context.Context) string {
	value, err := s.get(ctx, TokenKey)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read stored token, treating as absent",
			log.FieldStorageKey, TokenKey, log.FieldError, err.Error())
		return ""
	}
	return value
}

// SetToken stores the bearer token. No expiry metadata is kept; the
// token stays until a logout or a 401 evicts it.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if err := s.set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// ClearToken removes only the token, leaving any stored user in place.
func (s *Store) ClearToken(ctx context.Context) error {
	if err := s.delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// User returns the stored user record, or nil when absent or when the
// stored value no longer decodes.
func (s *Store) User(ctx context.Context) *core.User {
	value, err := s.get(ctx, UserKey)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read stored user, treating as absent",
			log.FieldStorageKey, UserKey, log.FieldError, err.Error())
		return nil
	}
	if value == "" {
		return nil
	}

	var user core.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		s.logger.WarnContext(ctx, "Stored user record is not valid JSON, treating as absent",
			log.FieldStorageKey, UserKey, log.FieldError, err.Error())
		return nil
	}
	return &user
}

// SetUser stores the user record; a nil user removes the stored value.
func (s *Store) SetUser(ctx context.Context, user *core.User) error {
	if user == nil {
		if err := s.delete(ctx, UserKey); err != nil {
			return fmt.Errorf("clear user: %w", err)
		}
		return nil
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.set(ctx, UserKey, string(encoded)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// Clear removes both the token and the user. Called on logout and on
// any 401 response.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := s.delete(ctx, UserKey); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	s.logger.InfoContext(ctx, "Session cleared")
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

func (s *Store) delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_values WHERE key = ?`, key)
	return err
}
