package mfa

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrymomot/totpmfa/pkg/kvstore"
	"github.com/dmitrymomot/totpmfa/pkg/totp"
)

// sealedPrefix marks a stored value sealed with totp.EncryptSecret.
const sealedPrefix = "aes256gcm:"

// SecretStore persists the installation secret under a single key of a
// host database. A stored secret is never overwritten.
type SecretStore struct {
	db     kvstore.Store
	key    string
	encKey []byte
}

// StoreOption configures a SecretStore.
type StoreOption func(*SecretStore)

// WithSecretKey sets the database key holding the secret.
func WithSecretKey(key string) StoreOption {
	return func(s *SecretStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithEncryptionKey seals newly saved secrets with AES-256-GCM.
// Values stored in plain text keep loading.
func WithEncryptionKey(key []byte) StoreOption {
	return func(s *SecretStore) { s.encKey = key }
}

// NewSecretStore returns a store backed by db.
func NewSecretStore(db kvstore.Store, opts ...StoreOption) *SecretStore {
	s := &SecretStore{db: db, key: DefaultSecretKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the persisted secret. found is false when nothing is stored.
func (s *SecretStore) Load(ctx context.Context) (secret Secret, found bool, err error) {
	raw, err := s.db.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return Secret{}, false, nil
	}
	if err != nil {
		return Secret{}, false, errors.Join(ErrStorage, err)
	}

	value := string(raw)
	if sealed, ok := strings.CutPrefix(value, sealedPrefix); ok {
		if len(s.encKey) == 0 {
			return Secret{}, false, errors.Join(ErrStorage, totp.ErrEncryptionKeyNotSet)
		}
		if value, err = totp.DecryptSecret(sealed, s.encKey); err != nil {
			return Secret{}, false, errors.Join(ErrStorage, err)
		}
	}

	secret, err = NewSecret(value)
	if err != nil {
		return Secret{}, false, errors.Join(ErrStorage, err)
	}
	return secret, true, nil
}

// Save persists secret unless one is already stored, in which case it
// returns ErrSecretExists.
func (s *SecretStore) Save(ctx context.Context, secret Secret) error {
	if secret.IsZero() {
		return ErrInvalidSecret
	}

	value := secret.Base32()
	if len(s.encKey) > 0 {
		sealed, err := totp.EncryptSecret(value, s.encKey)
		if err != nil {
			return errors.Join(ErrStorage, err)
		}
		value = sealedPrefix + sealed
	}

	created, err := kvstore.PutIfAbsent(ctx, s.db, s.key, []byte(value))
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if !created {
		return ErrSecretExists
	}
	return nil
}

// LoadOrCreateSecret returns the persisted secret, generating and saving a
// new one with entropyBytes of randomness on first use. When another process
// saves first, its secret is returned instead.
func LoadOrCreateSecret(ctx context.Context, store *SecretStore, engine Engine, entropyBytes int) (Secret, error) {
	secret, found, err := store.Load(ctx)
	if err != nil {
		return Secret{}, err
	}
	if found {
		return secret, nil
	}

	generated, err := engine.Generate(entropyBytes)
	if err != nil {
		return Secret{}, err
	}
	if secret, err = NewSecret(generated); err != nil {
		return Secret{}, err
	}

	switch err := store.Save(ctx, secret); {
	case err == nil:
		return secret, nil
	case !errors.Is(err, ErrSecretExists):
		return Secret{}, err
	}

	secret, found, err = store.Load(ctx)
	if err != nil {
		return Secret{}, err
	}
	if !found {
		return Secret{}, errors.Join(ErrStorage, kvstore.ErrNotFound)
	}
	return secret, nil
}
