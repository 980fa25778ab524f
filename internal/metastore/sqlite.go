package metastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS abbreviator_meta (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

const upsert = `
INSERT INTO abbreviator_meta (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// SQLite stores records in a single table of a SQLite database file.
type SQLite struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// table exists. The special path ":memory:" opens a private in-memory
// database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrStore)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("%w: creating database directory: %v", ErrStore, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrStore, path, err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: connecting to %s: %v", ErrStore, path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", ErrStore, err)
	}

	return &SQLite{db: db, path: path, now: time.Now}, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return "file::memory:"
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
}

// Path returns the database path given to OpenSQLite.
func (s *SQLite) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM abbreviator_meta WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, s.wrap("get", err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsert, key, value, s.now().Unix()); err != nil {
		return s.wrap("set", err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	//nolint:gosec // G202: placeholders are literal "?" strings, values passed as args
	query := `DELETE FROM abbreviator_meta WHERE key IN (` + placeholders + `)`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return s.wrap("delete", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) wrap(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%w: %s", ErrClosed, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
