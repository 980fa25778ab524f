package metastore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

var (
	_ store = (*Memory)(nil)
	_ store = (*SQLite)(nil)
)

func backends(t *testing.T) map[string]func(t *testing.T) store {
	t.Helper()
	return map[string]func(t *testing.T) store{
		"memory": func(t *testing.T) store {
			return NewMemory(0)
		},
		"sqlite file": func(t *testing.T) store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "meta", "decisions.db"))
			require.NoError(t, err)
			return s
		},
		"sqlite in memory": func(t *testing.T) store {
			s, err := OpenSQLite(context.Background(), ":memory:")
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })

			_, found, err := s.Get(ctx, "abbreviator-1")
			require.NoError(t, err)
			require.False(t, found)

			require.NoError(t, s.Set(ctx, "abbreviator-1", `{"hasAbbreviations":true}`))
			got, found, err := s.Get(ctx, "abbreviator-1")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, `{"hasAbbreviations":true}`, got)

			require.NoError(t, s.Set(ctx, "abbreviator-1", `{"hasAbbreviations":false}`))
			got, _, err = s.Get(ctx, "abbreviator-1")
			require.NoError(t, err)
			require.Equal(t, `{"hasAbbreviations":false}`, got)

			require.NoError(t, s.Set(ctx, "abbreviator-2", "x"))
			require.NoError(t, s.Delete(ctx, "abbreviator-1", "abbreviator-2", "missing"))
			for _, k := range []string{"abbreviator-1", "abbreviator-2"} {
				_, found, err := s.Get(ctx, k)
				require.NoError(t, err)
				require.False(t, found, k)
			}

			require.NoError(t, s.Delete(ctx))
		})
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := open(t)
			t.Cleanup(func() { _ = s.Close() })

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := s.Set(ctx, "k", "v")
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Set(ctx, "k", "v"))
	require.Equal(t, 1, m.Len())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.Equal(t, 0, m.Len())

	_, _, err := m.Get(ctx, "k")
	require.ErrorIs(t, err, ErrClosed)
}

func TestMemory_TTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(20 * time.Millisecond)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Set(ctx, "k", "v"))
	require.Eventually(t, func() bool {
		_, found, err := m.Get(ctx, "k")
		return err == nil && !found
	}, time.Second, 10*time.Millisecond)
}

func TestSQLite_Persists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "decisions.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.Equal(t, path, s.Path())
	require.NoError(t, s.Set(ctx, "abbreviator-post", "cached"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, found, err := s.Get(ctx, "abbreviator-post")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "cached", got)
}

func TestSQLite_Closed(t *testing.T) {
	t.Parallel()

	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get(context.Background(), "k")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrClosed) || errors.Is(err, ErrStore), "got %v", err)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := OpenSQLite(context.Background(), "")
	require.ErrorIs(t, err, ErrStore)
}
