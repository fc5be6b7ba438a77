package likes

import (
	"context"
	"sync"
)

// MemorySurface keeps entries in process memory. It backs the "memory"
// storage driver and tests.
type MemorySurface struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{entries: make(map[string]string)}
}

func (m *MemorySurface) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemorySurface) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}
