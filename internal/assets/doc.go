// Package assets provides the stylesheets injected into rewritten documents.
//
// # Loader Architecture
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled into the binary
//	    ├── FilesystemLoader  - {name}.css files from a directory on disk
//	    └── StyleResolver     - custom directory first, embedded as fallback
//
// Built-in styles: default (dotted underline), plain (no decoration) and
// print (expands the title after each abbreviation when printed).
//
// # Security
//
// Style names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within its directory.
package assets
