package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
	"github.com/jmoiron/sqlx"
)

// DBStore persists the session in the SQLite settings table.
type DBStore struct {
	db *sqlx.DB
}

// NewDBStore wraps a migrated database.
func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

// Get reads the stored key, returning the zero session when none is stored.
func (s *DBStore) Get(ctx context.Context) (models.Session, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", Key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: failed to read session: %v", shared.ErrSessionStore, err)
	}
	return models.Session{APIKey: value}, nil
}

// Set upserts the key. Setting an empty session is the same as [DBStore.Clear].
func (s *DBStore) Set(ctx context.Context, sess models.Session) error {
	if !sess.Valid() {
		return s.Clear(ctx)
	}

	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, Key, sess.APIKey, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to save session: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// Clear removes the key. Clearing an empty store succeeds.
func (s *DBStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", Key); err != nil {
		return fmt.Errorf("%w: failed to clear session: %v", shared.ErrSessionStore, err)
	}
	return nil
}
