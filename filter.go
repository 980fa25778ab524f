package abbreviator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/alnah/go-abbreviator/internal/fileutil"
)

// DefaultKeyPrefix is prepended to document IDs to form store keys.
const DefaultKeyPrefix = "abbreviator-"

// Document is one piece of content to filter.
type Document struct {
	ID       string    // stable identity, used as the store key
	Modified time.Time // last modification of the content
	Content  string
}

// FilterResult is the outcome of ContentFilter.Filter.
type FilterResult struct {
	Content  string
	Decision Decision
	Cached   bool // the decision came from the store
}

// record is the stored form of a decision.
type record struct {
	CheckedAt        time.Time `json:"checkedAt"`
	Fingerprint      string    `json:"fingerprint"`
	ContentHash      string    `json:"contentHash"`
	HasAbbreviations bool      `json:"hasAbbreviations"`
	InsideTags       bool      `json:"hasAbbreviationsInsideTags"`
	Balanced         bool      `json:"bracketsBalanced"`
	Strategy         string    `json:"strategy,omitempty"`
	Rewritten        string    `json:"rewritten,omitempty"`
}

// FilterOption configures a ContentFilter.
type FilterOption func(*ContentFilter)

// WithKeyPrefix sets the prefix of store keys. Default: DefaultKeyPrefix.
func WithKeyPrefix(prefix string) FilterOption {
	return func(f *ContentFilter) {
		f.prefix = prefix
	}
}

// WithClock sets the time source used for check timestamps.
func WithClock(now func() time.Time) FilterOption {
	return func(f *ContentFilter) {
		if now != nil {
			f.now = now
		}
	}
}

// WithWatchedFiles adds auxiliary files whose modification time also makes
// cached decisions stale. Missing files are ignored.
func WithWatchedFiles(paths ...string) FilterOption {
	return func(f *ContentFilter) {
		f.watched = append(f.watched, paths...)
	}
}

// WithFilterLogger sets the logger. Default: discard.
func WithFilterLogger(l *slog.Logger) FilterOption {
	return func(f *ContentFilter) {
		if l != nil {
			f.logger = l
		}
	}
}

// ContentFilter rewrites documents and remembers, per document, whether a
// rewrite was needed. A remembered decision is reused only for the same
// content, and only until the document, a watched file, or an explicit
// invalidation is newer than the check.
//
// Store failures never fail a filter call: they are logged and the content
// is rewritten without the cache.
type ContentFilter struct {
	store   Store
	prefix  string
	now     func() time.Time
	watched []string
	logger  *slog.Logger

	mu          sync.RWMutex
	invalidated time.Time
}

// NewContentFilter creates a filter backed by store. A nil store disables
// caching.
func NewContentFilter(store Store, opts ...FilterOption) *ContentFilter {
	f := &ContentFilter{
		store:  store,
		prefix: DefaultKeyPrefix,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Key returns the store key for a document ID.
func (f *ContentFilter) Key(id string) string {
	return f.prefix + id
}

// Filter returns doc's content with abbreviations wrapped. Only context
// errors and an empty document ID are returned.
func (f *ContentFilter) Filter(ctx context.Context, reg *Registry, doc Document) (*FilterResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.ID == "" {
		return nil, ErrEmptyDocumentID
	}
	if reg.Len() == 0 {
		return &FilterResult{Content: doc.Content}, nil
	}

	fp := reg.Fingerprint()
	sum := contentHash(doc.Content)
	log := f.logger.With("document", doc.ID)

	if rec, ok := f.lookup(ctx, doc, fp, sum, log); ok {
		d := rec.decision()
		// An older record without the rewritten text still tells us whether
		// to skip the scan; recompute only when a rewrite is needed.
		if !d.HasAbbreviations || d.Rewritten != "" {
			log.Debug("cached decision reused", "hasAbbreviations", d.HasAbbreviations)
			return &FilterResult{Content: d.Content(doc.Content), Decision: d, Cached: true}, nil
		}
	}

	checkedAt := f.now().UTC()
	d := Analyze(doc.Content, reg)
	log.Debug("content checked",
		"hasAbbreviations", d.HasAbbreviations,
		"insideTags", d.HasAbbreviationsInsideTags,
		"strategy", d.Strategy.String())
	if !d.BracketsBalanced && d.HasAbbreviations {
		log.Info("unbalanced tag brackets, occurrences after an unclosed '<' left unwrapped")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.save(ctx, doc.ID, record{
		CheckedAt:   checkedAt,
		Fingerprint: fp,
		ContentHash: sum,
	}, d, log)

	return &FilterResult{Content: d.Content(doc.Content), Decision: d}, nil
}

// lookup returns the stored record for doc when it is fresh and was computed
// for the registry fingerprint fp and the content hash sum.
func (f *ContentFilter) lookup(ctx context.Context, doc Document, fp, sum string, log *slog.Logger) (record, bool) {
	if f.store == nil {
		return record{}, false
	}

	raw, found, err := f.store.Get(ctx, f.Key(doc.ID))
	if err != nil {
		log.Warn("reading cached decision", "error", err)
		return record{}, false
	}
	if !found {
		return record{}, false
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Warn("discarding unreadable cached decision", "error", err)
		return record{}, false
	}
	if rec.Fingerprint != fp {
		return record{}, false
	}
	if rec.ContentHash != sum {
		log.Debug("content changed since last check")
		return record{}, false
	}
	if f.stalePoint(doc.Modified).After(rec.CheckedAt) {
		return record{}, false
	}
	return rec, true
}

// save stores d under id. rec carries the check time and the hashes.
func (f *ContentFilter) save(ctx context.Context, id string, rec record, d Decision, log *slog.Logger) {
	if f.store == nil {
		return
	}

	rec.HasAbbreviations = d.HasAbbreviations
	rec.InsideTags = d.HasAbbreviationsInsideTags
	rec.Balanced = d.BracketsBalanced
	rec.Strategy = d.Strategy.String()
	rec.Rewritten = d.Rewritten
	data, err := json.Marshal(rec)
	if err != nil {
		log.Warn("encoding decision", "error", err)
		return
	}
	if err := f.store.Set(ctx, f.Key(id), string(data)); err != nil {
		log.Warn("storing decision", "error", err)
	}
}

// stalePoint is the latest of the document modification time, the watched
// file modification times and the last InvalidateAll.
func (f *ContentFilter) stalePoint(modified time.Time) time.Time {
	latest := modified

	f.mu.RLock()
	if f.invalidated.After(latest) {
		latest = f.invalidated
	}
	f.mu.RUnlock()

	for _, p := range f.watched {
		if mt, ok := fileutil.ModTime(p); ok && mt.After(latest) {
			latest = mt
		}
	}
	return latest
}

// Invalidate drops the stored decisions for ids.
func (f *ContentFilter) Invalidate(ctx context.Context, ids ...string) error {
	if f.store == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = f.Key(id)
	}
	return f.store.Delete(ctx, keys...)
}

// InvalidateAll marks every decision checked before now as stale.
func (f *ContentFilter) InvalidateAll() {
	f.mu.Lock()
	f.invalidated = f.now()
	f.mu.Unlock()
	f.logger.Debug("all cached decisions invalidated")
}

func contentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

func (r record) decision() Decision {
	d := Decision{
		HasAbbreviations:           r.HasAbbreviations,
		HasAbbreviationsInsideTags: r.InsideTags,
		BracketsBalanced:           r.Balanced,
		Rewritten:                  r.Rewritten,
	}
	switch r.Strategy {
	case StrategyBulk.String():
		d.Strategy = StrategyBulk
	case StrategyCareful.String():
		d.Strategy = StrategyCareful
	}
	return d
}
