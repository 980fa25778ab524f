package abbreviator

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/alnah/go-abbreviator/internal/pipeline"
)

// Registry is an ordered set of entries, unique by abbreviation text.
// Insertion order is the replacement order used by the rewriter.
//
// A Registry is safe for concurrent use. A nil *Registry behaves as an empty
// one for every read method.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
	matcher *pipeline.Matcher // built on first rewrite, reset by Add
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// BuildRegistry validates defs in order and returns the resulting registry.
// It stops at the first invalid or duplicate entry; the returned error is a
// *ValidationError or *DuplicateAbbreviationError carrying that entry's index.
func BuildRegistry(defs []Definition) (*Registry, error) {
	r := NewRegistry()
	for i, d := range defs {
		if _, err := r.add(d.Abbreviation, d.Meaning, i); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends a new entry. It fails with *ValidationError when either field
// is empty after trimming and with *DuplicateAbbreviationError when the
// abbreviation is already present.
func (r *Registry) Add(abbreviation, meaning string) (Entry, error) {
	return r.add(abbreviation, meaning, r.Len())
}

func (r *Registry) add(abbreviation, meaning string, index int) (Entry, error) {
	e, err := newEntryAt(abbreviation, meaning, index)
	if err != nil {
		return Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, dup := r.index[e.abbreviation]; dup {
		return Entry{}, &DuplicateAbbreviationError{Abbreviation: e.abbreviation, Index: index}
	}
	r.index[e.abbreviation] = len(r.entries)
	r.entries = append(r.entries, e)
	r.matcher = nil
	return e, nil
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns a copy of the entries in insertion order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Entry(nil), r.entries...)
}

// Abbreviations returns the abbreviation texts in insertion order.
func (r *Registry) Abbreviations() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.abbreviation
	}
	return out
}

// Tags returns the rendered tags, parallel to Abbreviations.
func (r *Registry) Tags() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Tag()
	}
	return out
}

// MeaningOf returns the meaning registered for abbreviation.
func (r *Registry) MeaningOf(abbreviation string) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[abbreviation]
	if !ok {
		return "", false
	}
	return r.entries[i].meaning, true
}

// AsMap returns abbreviation -> meaning for every entry.
func (r *Registry) AsMap() map[string]string {
	entries := r.Entries()
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.abbreviation] = e.meaning
	}
	return out
}

// Definitions returns the entries as plain pairs, in insertion order.
func (r *Registry) Definitions() []Definition {
	entries := r.Entries()
	out := make([]Definition, len(entries))
	for i, e := range entries {
		out[i] = Definition{Abbreviation: e.abbreviation, Meaning: e.meaning}
	}
	return out
}

// Fingerprint identifies the registry contents and order. Cached rewrite
// decisions are only reused when the fingerprint matches.
func (r *Registry) Fingerprint() string {
	h := xxhash.New()
	for _, e := range r.Entries() {
		_, _ = h.WriteString(e.abbreviation)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(e.meaning)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// compiled returns the matcher for the current entries, or nil when the
// registry is empty.
func (r *Registry) compiled() *pipeline.Matcher {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	m, n := r.matcher, len(r.entries)
	r.mu.RUnlock()
	if n == 0 {
		return nil
	}
	if m != nil {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.matcher == nil {
		reps := make([]pipeline.Replacement, len(r.entries))
		for i, e := range r.entries {
			reps[i] = pipeline.Replacement{Abbreviation: e.abbreviation, Tag: e.Tag()}
		}
		r.matcher = pipeline.NewMatcher(reps)
	}
	return r.matcher
}
