package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvalle/tienda/internal"
)

func TestMemoryAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()

	_, err := m.Load(ctx, "tienda:cart:abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, "tienda:cart:abc", []byte(`{"version":1}`)))

	data, err := m.Load(ctx, "tienda:cart:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))

	// Full-state overwrite
	require.NoError(t, m.Save(ctx, "tienda:cart:abc", []byte(`{"version":2}`)))
	data, err = m.Load(ctx, "tienda:cart:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(data))
}

func TestMemoryAdapter_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()
	require.NoError(t, m.Save(ctx, "k", []byte("abc")))

	data, err := m.Load(ctx, "k")
	require.NoError(t, err)
	data[0] = 'x'

	again, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestFileAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := NewFileAdapter(dir)
	require.NoError(t, err)

	_, err = f.Load(ctx, "tienda:cart:abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.Save(ctx, "tienda:cart:abc", []byte(`{"lines":[]}`)))

	data, err := f.Load(ctx, "tienda:cart:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"lines":[]}`, string(data))

	// Keys are mapped to filename-safe paths
	_, err = os.Stat(filepath.Join(dir, "tienda_cart_abc.json"))
	assert.NoError(t, err)
}

func TestFileAdapter_RejectsHostileKeys(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	dir := filepath.Join(parent, "carts")

	f, err := NewFileAdapter(dir)
	require.NoError(t, err)

	keys := []string{
		"",
		"tienda:cart:../../../escape",
		"../escape",
		"..",
		"a/b",
		`a\b`,
		"tienda:cart:abc.json",
	}
	for _, key := range keys {
		err := f.Save(ctx, key, []byte(`{"version":1}`))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)

		_, err = f.Load(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}

	// Nothing may appear outside the snapshot directory
	_, err = os.Stat(filepath.Join(parent, "escape.json"))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "carts", entries[0].Name())
}

func TestFileAdapter_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := NewFileAdapter(dir)
	require.NoError(t, err)
	require.NoError(t, f.Save(ctx, "k", []byte("persisted")))

	reopened, err := NewFileAdapter(dir)
	require.NoError(t, err)

	data, err := reopened.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data))
}

func TestNewAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("memory is the default", func(t *testing.T) {
		a, err := NewAdapter(ctx, internal.CartStorageConfig{})
		require.NoError(t, err)
		assert.IsType(t, &MemoryAdapter{}, a)
	})

	t.Run("file backend", func(t *testing.T) {
		a, err := NewAdapter(ctx, internal.CartStorageConfig{
			Backend:  "file",
			FilePath: t.TempDir(),
		})
		require.NoError(t, err)
		assert.IsType(t, &FileAdapter{}, a)
	})

	t.Run("bad redis URL", func(t *testing.T) {
		_, err := NewAdapter(ctx, internal.CartStorageConfig{
			Backend:  "redis",
			RedisURL: "://not-a-url",
		})
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewAdapter(ctx, internal.CartStorageConfig{Backend: "s3"})
		assert.Error(t, err)
	})
}
