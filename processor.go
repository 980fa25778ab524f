package abbreviator

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/alnah/go-abbreviator/internal/assets"
	"github.com/alnah/go-abbreviator/internal/fileutil"
	"github.com/alnah/go-abbreviator/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector   = (*pipeline.CSSInjection)(nil)
)

// Option configures a Processor.
type Option func(*Processor)

// WithContentFilter sets the filter used for caching decisions.
// Default: a filter without a store.
func WithContentFilter(f *ContentFilter) Option {
	return func(p *Processor) {
		p.filter = f
	}
}

// WithStyle sets the stylesheet injected into documents that received at
// least one tag. The value is a style name from the embedded set, a file
// path, or literal CSS.
func WithStyle(style string) Option {
	return func(p *Processor) {
		p.styleInput = style
	}
}

// WithStyleDir adds a directory of {name}.css files searched before the
// built-in styles when WithStyle names a style.
func WithStyleDir(dir string) Option {
	return func(p *Processor) {
		p.styleDir = dir
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// Processor turns HTML and Markdown documents into HTML with abbreviation
// tags. It is safe for concurrent use.
type Processor struct {
	mu       sync.RWMutex
	registry *Registry

	filter        *ContentFilter
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	logger        *slog.Logger

	styleInput string
	styleDir   string
	css        string
}

// NewProcessor creates a Processor for reg.
// Returns an error if the configured style cannot be resolved.
func NewProcessor(reg *Registry, opts ...Option) (*Processor, error) {
	p := &Processor{
		registry:      reg,
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.filter == nil {
		p.filter = NewContentFilter(nil, WithFilterLogger(p.logger))
	}

	css, err := resolveStyle(p.styleInput, p.styleDir)
	if err != nil {
		return nil, err
	}
	p.css = css
	return p, nil
}

// Registry returns the registry currently in use.
func (p *Processor) Registry() *Registry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.registry
}

// SetRegistry swaps the registry. In-flight calls keep the previous one.
func (p *Processor) SetRegistry(reg *Registry) {
	p.mu.Lock()
	p.registry = reg
	p.mu.Unlock()
}

// Filter returns the content filter, for invalidation.
func (p *Processor) Filter() *ContentFilter {
	return p.filter
}

// Process converts, rewrites and styles one document.
// Recovers from internal panics so one bad document cannot take down a batch.
func (p *Processor) Process(ctx context.Context, in Input) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if in.ID == "" {
		return nil, ErrEmptyDocumentID
	}

	htmlContent := in.Content
	if in.Format == FormatMarkdown {
		htmlContent, err = p.htmlConverter.ToHTML(ctx, in.Content)
		if err != nil {
			return nil, fmt.Errorf("converting to HTML: %w", err)
		}
	}

	fr, err := p.filter.Filter(ctx, p.Registry(), Document{
		ID:       in.ID,
		Modified: in.Modified,
		Content:  htmlContent,
	})
	if err != nil {
		return nil, err
	}
	out := fr.Content

	if in.Format == FormatMarkdown {
		title := in.Title
		if title == "" {
			title = firstHeading(htmlContent)
		}
		out = pipeline.WrapDocument(title, out)
	}

	if fr.Decision.HasAbbreviations {
		out = p.cssInjector.InjectCSS(ctx, out, p.css)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return &Result{Content: out, Decision: fr.Decision, Cached: fr.Cached}, nil
}

var h1Pattern = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)

// firstHeading returns the text of the first <h1> element, or "".
func firstHeading(htmlContent string) string {
	m := h1Pattern.FindStringSubmatch(htmlContent)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(pipeline.StripTags(m[1])))
}

// resolveStyle resolves a style name, path or CSS content to CSS content.
// Names are looked up in dir first when dir is set.
func resolveStyle(input, dir string) (string, error) {
	if input == "" {
		return "", nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrReadStyle, input, err)
		}
		return string(content), nil
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		return input, nil
	}

	loader, err := assets.NewStyleResolver(dir)
	if err != nil {
		return "", err
	}
	css, err := loader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}
