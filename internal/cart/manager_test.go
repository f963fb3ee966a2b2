package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvalle/tienda/internal/persist"
)

func TestManager_OneStorePerSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(persist.NewMemoryAdapter(), nil)

	a := m.Get(ctx, "session-a")
	b := m.Get(ctx, "session-b")
	assert.NotSame(t, a, b)

	// Repeated Get returns the same instance
	assert.Same(t, a, m.Get(ctx, "session-a"))
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewManager(persist.NewMemoryAdapter(), nil)

	a := m.Get(ctx, "session-a")
	_, err := a.AddItem(ctx, candidate(7, 1000, 5, 2))
	require.NoError(t, err)

	b := m.Get(ctx, "session-b")
	assert.Equal(t, 0, b.TotalItems())
	assert.Equal(t, 2, a.TotalItems())
}

func TestManager_ReleaseRehydratesFromAdapter(t *testing.T) {
	ctx := context.Background()
	adapter := persist.NewMemoryAdapter()
	m := NewManager(adapter, nil)

	s := m.Get(ctx, "session-a")
	_, err := s.AddItem(ctx, candidate(7, 1000, 5, 2))
	require.NoError(t, err)

	m.Release("session-a")

	reloaded := m.Get(ctx, "session-a")
	assert.NotSame(t, s, reloaded)
	assert.Equal(t, 2, reloaded.TotalItems())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "tienda:cart:abc", Key("abc"))
}

func TestManager_BoundsResidentStores(t *testing.T) {
	ctx := context.Background()
	m := NewManager(persist.NewMemoryAdapter(), nil)

	for i := 0; i <= maxStores; i++ {
		m.Get(ctx, fmt.Sprintf("session-%d", i))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.LessOrEqual(t, len(m.stores), maxStores)
}
