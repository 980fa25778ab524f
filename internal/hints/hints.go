// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"
)

// ForConfigNotFound suggests --config, or creating the file in the user
// config directory when that location was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), "go-abbreviator/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForDuplicate explains how to fix a duplicate abbreviation.
func ForDuplicate(abbreviation string) string {
	return format(fmt.Sprintf("each abbreviation may appear once; remove or merge the entries for %q", abbreviation))
}

// ForEmptyField points at the configuration entry with a blank value.
// index is zero-based; hints count from one.
func ForEmptyField(index int) string {
	if index < 0 {
		return format("abbreviation and meaning must both be non-empty")
	}
	return format(fmt.Sprintf("fill in or delete entry #%d under abbreviations:", index+1))
}

// ForMismatchedRows explains the two-column form rule.
func ForMismatchedRows() string {
	return format("pass one --meaning per --abbr, in the same order")
}

// ForStore returns hints for cache store failures.
func ForStore(path string) string {
	var hints []string
	if path != "" {
		hints = append(hints, "check that "+path+" is writable")
	}
	if os.Getenv("ABBREVIATOR_CACHE") == "" {
		hints = append(hints, "use --cache none to run without a cache")
	}
	return formatHints(hints)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnsupportedFormat lists the accepted extensions.
func ForUnsupportedFormat() string {
	return format("supported extensions: .html, .htm, .md, .markdown")
}

// slashed normalizes separators so Windows paths match too.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
