package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in a map for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns the entry for path, or nil when none is stored.
func (m *MemoryStore) Get(_ context.Context, path string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[path]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// Put stores entry, stamping UpdatedAt when it is zero.
func (m *MemoryStore) Put(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	m.entries[entry.Path] = entry
	return nil
}

// Delete forgets path. Unknown paths are not an error.
func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, path)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
