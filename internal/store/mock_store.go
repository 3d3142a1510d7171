// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu          sync.RWMutex
	preferences map[string]string              // keyed by preference key
	expanded    map[string]map[string]struct{} // keyed by notebook ID
	closed      bool
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		preferences: make(map[string]string),
		expanded:    make(map[string]map[string]struct{}),
	}
}

// GetPreference returns the value stored under key.
func (m *MockStore) GetPreference(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.preferences[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// SetPreference stores value under key.
func (m *MockStore) SetPreference(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.preferences[key] = value
	return nil
}

// LoadExpanded returns the expanded ids of a notebook in id order.
func (m *MockStore) LoadExpanded(ctx context.Context, notebookID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id := range m.expanded[notebookID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// SaveExpanded replaces the expanded ids of a notebook.
func (m *MockStore) SaveExpanded(ctx context.Context, notebookID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	m.expanded[notebookID] = set
	return nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.closed
}

var _ Store = (*MockStore)(nil)
