// Package storage provides ports.Storage adapters: an in-memory map, a JSON
// file that persists between terminal sessions, and a disabled store that
// models browsers with storage turned off.
package storage

import (
	"sync"

	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// Memory is a concurrency-safe in-memory Storage.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// GetItem implements ports.Storage.
func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem implements ports.Storage.
func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// Snapshot returns a copy of every stored item.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

var _ ports.Storage = (*Memory)(nil)
