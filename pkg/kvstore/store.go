package kvstore

import (
	"context"
	"errors"
	"strings"
)

// Store is the key-value database a host hands to a module.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}

// Creator is implemented by stores that can write a key only when it is absent.
type Creator interface {
	// PutIfAbsent stores value under key unless the key exists.
	// It reports whether the value was written.
	PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Opener opens the named database. The name namespaces keys so several
// modules can share one backend.
type Opener func(ctx context.Context, name string) (Store, error)

// PutIfAbsent writes value under key unless it already exists, using the
// store's atomic implementation when it has one. The fallback is a
// get-then-put and is only safe with a single writer.
func PutIfAbsent(ctx context.Context, s Store, key string, value []byte) (bool, error) {
	if c, ok := s.(Creator); ok {
		return c.PutIfAbsent(ctx, key, value)
	}

	_, err := s.Get(ctx, key)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, ErrNotFound):
		return false, err
	}

	if err := s.Put(ctx, key, value); err != nil {
		return false, err
	}
	return true, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyDatabaseName
	}
	return nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
