package storage

import (
	"context"
	"sync"
)

// KV is a string key-value store.
type KV interface {
	// Get returns ok == false when the key has never been set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Memory keeps values in a map. Nothing survives the process.
type Memory struct {
	storage map[string]string

	mx sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{storage: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mx.RLock()
	defer m.mx.RUnlock()

	v, ok := m.storage[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mx.Lock()
	defer m.mx.Unlock()

	m.storage[key] = value
	return nil
}
