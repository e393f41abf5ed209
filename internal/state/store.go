// Package state persists per-bundle UI state across sessions: which
// directories the user had expanded, keyed by bundle fingerprint.
package state

import "sync"

// Store is the session store interface. The sqlite subpackage provides the
// durable implementation; MemoryStore backs tests and degraded startup.
type Store interface {
	SaveExpansion(fingerprint string, paths []string) error
	LoadExpansion(fingerprint string) ([]string, error)
	Close() error
}

// MemoryStore keeps snapshots in memory only.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: map[string][]string{}}
}

func (m *MemoryStore) SaveExpansion(fingerprint string, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[fingerprint] = append([]string(nil), paths...)
	return nil
}

func (m *MemoryStore) LoadExpansion(fingerprint string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.snapshots[fingerprint]...), nil
}

func (m *MemoryStore) Close() error {
	return nil
}
