package routestore

import (
	"context"
	"sync"
)

// MemoryStore keeps routes in process memory.
// It's the default store; its content does not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	routes map[string]string
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{routes: make(map[string]string)}
}

// Load returns the URL stored under key.
func (m *MemoryStore) Load(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, ErrStoreClosed{}
	}

	url, ok := m.routes[key]
	return url, ok, nil
}

// Save stores url under key.
func (m *MemoryStore) Save(ctx context.Context, key string, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed{}
	}

	m.routes[key] = url
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed{}
	}

	delete(m.routes, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.routes)
}

// Close marks the store as closed and drops its content.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.routes = nil
	return nil
}
