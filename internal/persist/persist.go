// Package persist provides the durable key-addressed stores backing cart
// snapshots. A cart writes its full serialized state through an Adapter on
// every mutation and rehydrates from it on startup.
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dvalle/tienda/internal"
)

// ErrNotFound is returned by Load when no snapshot exists for the key.
// Callers treat it as "no prior cart", never as a fault.
var ErrNotFound = errors.New("persist: key not found")

// Adapter is a durable, key-addressed byte store. Implementations must make
// Save a full-state overwrite; there are no incremental patches.
//
// Multiple processes sharing one key get last-write-wins semantics at the
// granularity of a full snapshot. That is a documented limitation, not a
// guarantee this package tries to fix.
type Adapter interface {
	// Load returns the serialized snapshot stored at key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the snapshot stored at key.
	Save(ctx context.Context, key string, data []byte) error
}

// NewAdapter creates an Adapter based on configuration.
// Returns MemoryAdapter for "memory", FileAdapter for "file",
// RedisAdapter for "redis" and PostgresAdapter for "postgres".
func NewAdapter(ctx context.Context, cfg internal.CartStorageConfig) (Adapter, error) {
	switch cfg.Backend {
	case "memory", "":
		return NewMemoryAdapter(), nil
	case "file":
		return NewFileAdapter(cfg.FilePath)
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		return NewRedisAdapter(redis.NewClient(opts)), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		return NewPostgresAdapter(pool), nil
	default:
		return nil, fmt.Errorf("unknown cart storage backend: %s", cfg.Backend)
	}
}
