package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Values are copied on the way in and out.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// MemoryOpener returns an Opener whose databases live for the lifetime of the
// opener, so reopening a name returns the same data.
func MemoryOpener() Opener {
	var mu sync.Mutex
	dbs := make(map[string]*Memory)
	return func(_ context.Context, name string) (Store, error) {
		if err := validateName(name); err != nil {
			return nil, err
		}
		mu.Lock()
		defer mu.Unlock()
		db, ok := dbs[name]
		if !ok {
			db = NewMemory()
			dbs[name] = db
		}
		return db, nil
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) PutIfAbsent(_ context.Context, key string, value []byte) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = append([]byte(nil), value...)
	return true, nil
}
