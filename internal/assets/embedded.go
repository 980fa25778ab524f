package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

// EmbeddedLoader loads the built-in styles.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a built-in style by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// ListStyles returns the built-in style names.
func (e *EmbeddedLoader) ListStyles() ([]string, error) {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	return cssNames(entries), nil
}

// cssNames returns the sorted base names of the .css files in entries.
func cssNames(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".css") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ StyleLoader = (*EmbeddedLoader)(nil)
