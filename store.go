package abbreviator

import (
	"context"
	"time"

	"github.com/alnah/go-abbreviator/internal/metastore"
)

// Store is the key-value store a ContentFilter keeps decisions in.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value under key and whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ Store = (*metastore.Memory)(nil)
	_ Store = (*metastore.SQLite)(nil)
)

// NewMemoryStore returns an in-process store. A ttl of zero keeps records
// until they are deleted or the store is closed.
func NewMemoryStore(ttl time.Duration) Store {
	return metastore.NewMemory(ttl)
}

// OpenSQLiteStore opens or creates a SQLite-backed store at path.
// Failures wrap ErrStore.
func OpenSQLiteStore(ctx context.Context, path string) (Store, error) {
	s, err := metastore.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
