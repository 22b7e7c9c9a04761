// Package persist snapshots the entity store's collections as whole JSON
// blobs behind a small KV surface. Four backends: in-memory, filesystem,
// postgres and redis. The store stays authoritative; this layer only makes
// restarts survivable.
package persist

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSnapshot reports that a key has never been written (or was deleted).
var ErrNoSnapshot = errors.New("no snapshot")

// KV is the backend surface: opaque bytes under string keys.
type KV interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// MemoryKV keeps snapshots in process memory. Used in tests and as the
// default backend when persistence is not configured.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[key] = cp
	return nil
}

func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNoSnapshot
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
