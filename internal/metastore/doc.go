// Package metastore persists per-document rewrite decisions as opaque string
// values under string keys.
//
// Memory keeps records in process with patrickmn/go-cache. SQLite keeps them
// in a single table through the ncruces/go-sqlite3 database/sql driver, which
// runs an embedded WebAssembly build of SQLite and needs no cgo.
package metastore

import "errors"

// ErrStore wraps every failure reported by a backend.
var ErrStore = errors.New("decision store failure")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("decision store closed")
