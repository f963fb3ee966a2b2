package persist

import (
	"context"
	"sync"
)

// MemoryAdapter keeps snapshots in process memory. Used in tests and as the
// default backend in development; nothing survives a restart.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryAdapter creates an empty in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string][]byte)}
}

// Load returns the stored snapshot or ErrNotFound.
func (m *MemoryAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Copy so callers cannot mutate the stored snapshot.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save overwrites the stored snapshot.
func (m *MemoryAdapter) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.data[key] = stored
	return nil
}
