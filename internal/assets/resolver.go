package assets

import (
	"errors"
	"sort"
)

// StyleResolver tries a custom directory first and falls back to the
// built-in styles when a name is not found there.
type StyleResolver struct {
	custom   StyleLoader // nil if no custom directory configured
	embedded StyleLoader
}

// NewStyleResolver creates a StyleResolver. An empty dir uses built-in
// styles only.
func NewStyleResolver(dir string) (*StyleResolver, error) {
	r := &StyleResolver{embedded: NewEmbeddedLoader()}

	if dir != "" {
		fsLoader, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads a style, custom directory first.
func (r *StyleResolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	content, err := r.custom.LoadStyle(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found", not for validation or I/O errors.
	if !errors.Is(err, ErrStyleNotFound) {
		return "", err
	}
	return r.embedded.LoadStyle(name)
}

// ListStyles returns the union of custom and built-in names.
func (r *StyleResolver) ListStyles() ([]string, error) {
	names, err := r.embedded.ListStyles()
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return names, nil
	}

	custom, err := r.custom.ListStyles()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names)+len(custom))
	all := make([]string, 0, len(names)+len(custom))
	for _, n := range append(names, custom...) {
		if !seen[n] {
			seen[n] = true
			all = append(all, n)
		}
	}
	sort.Strings(all)
	return all, nil
}

// HasCustomLoader returns true if a custom directory is configured.
func (r *StyleResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ StyleLoader = (*StyleResolver)(nil)
