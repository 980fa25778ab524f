package metastore

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired records are purged when a TTL
// is set.
const DefaultCleanupInterval = 10 * time.Minute

// Memory is an in-process store. Records vanish with the process.
type Memory struct {
	cache  *gocache.Cache
	closed atomic.Bool
}

// NewMemory creates a Memory store. A ttl of zero keeps records until they
// are deleted.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		return &Memory{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Memory{cache: gocache.New(ttl, DefaultCleanupInterval)}
}

// Get returns the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := m.check(ctx); err != nil {
		return "", false, err
	}
	v, found := m.cache.Get(key)
	if !found {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	m.cache.Set(key, value, gocache.DefaultExpiration)
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	for _, k := range keys {
		m.cache.Delete(k)
	}
	return nil
}

// Len returns the number of stored records, expired ones included until
// the next cleanup.
func (m *Memory) Len() int {
	return m.cache.ItemCount()
}

// Close drops every record. Later calls fail with ErrClosed.
func (m *Memory) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.cache.Flush()
	return nil
}

func (m *Memory) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.closed.Load() {
		return ErrClosed
	}
	return nil
}
