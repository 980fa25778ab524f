package abbreviator

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Format is the source format of an input document.
type Format int

const (
	// FormatHTML content is rewritten as is.
	FormatHTML Format = iota
	// FormatMarkdown content is rendered to HTML before rewriting.
	FormatMarkdown
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatMarkdown {
		return "markdown"
	}
	return "html"
}

// FormatFromPath infers the format from a file extension.
// Returns ErrUnsupportedFormat for anything other than .html, .htm, .md and
// .markdown (case-insensitive).
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Input is a document handed to Processor.Process.
type Input struct {
	ID       string    // store key; file paths work well
	Modified time.Time // zero means "unknown"; records still require identical content
	Content  string
	Format   Format

	// Title of the standalone document built from Markdown. Empty uses the
	// first H1 text, then "Document".
	Title string
}

// Result is the outcome of Processor.Process.
type Result struct {
	Content  string
	Decision Decision
	Cached   bool
}
