package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dvalle/tienda/internal/persist"
)

// keyPrefix namespaces cart keys in the shared persistence backend.
const keyPrefix = "tienda:cart:"

// maxStores bounds the number of resident stores. Stores are write-through,
// so an evicted session loses nothing; the next access rehydrates it from
// the adapter.
const maxStores = 10000

// Key returns the persistence key for a session's cart.
func Key(sessionID string) string {
	return keyPrefix + sessionID
}

// Manager owns the session-to-store mapping. It is created once at bootstrap
// and injected into the HTTP handlers; stores are created lazily, rehydrated
// from the adapter on first access, and live until released.
type Manager struct {
	mu      sync.Mutex
	adapter persist.Adapter
	logger  *slog.Logger
	stores  map[string]*Store
}

// NewManager creates a manager backed by the given persistence adapter.
func NewManager(adapter persist.Adapter, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		adapter: adapter,
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// Get returns the store for a session, creating and rehydrating it if this
// is the first access. Exactly one store instance exists per session.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[sessionID]; ok {
		return store
	}

	if len(m.stores) >= maxStores {
		for id := range m.stores {
			delete(m.stores, id)
			break
		}
	}

	store := NewStore(ctx, Key(sessionID), m.adapter, m.logger)
	m.stores[sessionID] = store
	return store
}

// Release drops the in-memory store for a session, e.g. after an order was
// submitted. The persisted snapshot is untouched; a later Get rehydrates.
func (m *Manager) Release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
