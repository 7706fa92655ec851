package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
)

const defaultKeyringService = "vidhi"

// KeyringStore persists the session in the operating system credential store.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the system keyring, falling back to an encrypted file under dir.
func NewKeyringStore(service, dir string) (*KeyringStore, error) {
	if service == "" {
		service = defaultKeyringService
	}
	if dir == "" {
		dir = "~/.config/" + service + "/credentials"
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt(service + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening keyring: %v", shared.ErrSessionStore, err)
	}

	return NewKeyringStoreWith(ring), nil
}

// NewKeyringStoreWith wraps an already opened [keyring.Keyring].
func NewKeyringStoreWith(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func (k *KeyringStore) Get(context.Context) (models.Session, error) {
	item, err := k.ring.Get(Key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: getting credential %q: %v", shared.ErrSessionStore, Key, err)
	}
	return models.Session{APIKey: string(item.Data)}, nil
}

func (k *KeyringStore) Set(ctx context.Context, s models.Session) error {
	if !s.Valid() {
		return k.Clear(ctx)
	}

	err := k.ring.Set(keyring.Item{
		Key:         Key,
		Data:        []byte(s.APIKey),
		Label:       "Vidhi Sahayak API key",
		Description: "API key issued by the Vidhi Sahayak updates service",
	})
	if err != nil {
		return fmt.Errorf("%w: setting credential %q: %v", shared.ErrSessionStore, Key, err)
	}
	return nil
}

func (k *KeyringStore) Clear(context.Context) error {
	err := k.ring.Remove(Key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("%w: deleting credential %q: %v", shared.ErrSessionStore, Key, err)
	}
	return nil
}
