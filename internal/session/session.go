// Package session persists the API key issued at login.
//
// A [Store] holds at most one key. Absence is the logged-out state and is not an error:
// [Store.Get] returns the zero [models.Session]. Expiry is never tracked here; callers clear
// the store when the backend rejects the key.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
	"github.com/jmoiron/sqlx"
)

// Key is the name under which the API key is persisted in every backend.
const Key = "apiKey"

// Store is a durable holder for a single [models.Session].
type Store interface {
	Get(ctx context.Context) (models.Session, error)
	Set(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}

// Open returns the backend selected by cfg.Backend.
//
// db is required for the database backend and ignored otherwise.
func Open(cfg shared.SessionConfig, db *sqlx.DB) (Store, error) {
	switch cfg.Backend {
	case shared.SessionBackendDatabase, "":
		if db == nil {
			return nil, fmt.Errorf("%w: database session backend needs an open database", shared.ErrInvalidConfig)
		}
		return NewDBStore(db), nil
	case shared.SessionBackendKeyring:
		return NewKeyringStore(cfg.KeyringService, cfg.KeyringDir)
	case shared.SessionBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown session backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}

// MemoryStore keeps the session in process memory. It does not survive restarts.
type MemoryStore struct {
	mu      sync.RWMutex
	session models.Session
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(context.Context) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, nil
}

func (m *MemoryStore) Set(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = models.Session{}
	return nil
}
