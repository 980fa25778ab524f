package pipeline

import (
	"context"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no escape needed",
			input:    "abbr[title] { cursor: help; }",
			expected: "abbr[title] { cursor: help; }",
		},
		{
			name:     "escapes style close",
			input:    "</style>",
			expected: `<\/style>`,
		},
		{
			name:     "multiple occurrences",
			input:    "</a></b>",
			expected: `<\/a><\/b>`,
		},
		{
			name:     "case variation",
			input:    "</STYLE>",
			expected: `<\/STYLE>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizeCSS(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	const css = "abbr[title] { text-decoration: underline dotted; }"

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "empty CSS returns HTML unchanged",
			html:     "<html><head></head><body>FUBAR</body></html>",
			css:      "",
			expected: "<html><head></head><body>FUBAR</body></html>",
		},
		{
			name:     "injects before </head>",
			html:     "<html><head></head><body>FUBAR</body></html>",
			css:      css,
			expected: "<html><head><style>" + css + "</style></head><body>FUBAR</body></html>",
		},
		{
			name:     "injects before </HEAD> mixed case",
			html:     "<html><HEAD></HEAD><body>FUBAR</body></html>",
			css:      css,
			expected: "<html><HEAD><style>" + css + "</style></HEAD><body>FUBAR</body></html>",
		},
		{
			name:     "injects after <body> with attributes",
			html:     `<html><body class="post">FUBAR</body></html>`,
			css:      css,
			expected: `<html><body class="post"><style>` + css + `</style>FUBAR</body></html>`,
		},
		{
			name:     "prepends to bare fragment",
			html:     `<p><abbr title="x">FUBAR</abbr></p>`,
			css:      css,
			expected: `<style>` + css + `</style><p><abbr title="x">FUBAR</abbr></p>`,
		},
		{
			name:     "sanitizes CSS with closing tags",
			html:     "<html><head></head><body>FUBAR</body></html>",
			css:      "</style><script>alert('xss')</script>",
			expected: `<html><head><style><\/style><script>alert('xss')<\/script></style></head><body>FUBAR</body></html>`,
		},
	}

	injector := &CSSInjection{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := injector.InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	injector := &CSSInjection{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<html><head></head><body>FUBAR</body></html>"
	got := injector.InjectCSS(ctx, html, "abbr { cursor: help; }")
	if got != html {
		t.Errorf("InjectCSS() with cancelled context should return HTML unchanged, got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no tags", "plain FUBAR text", "plain FUBAR text"},
		{"attribute text removed", `<img alt="FUBAR pic">FUBAR</img>`, "FUBAR"},
		{"nested inline tags", "<p><em>SNAFU</em> now</p>", "SNAFU now"},
		{"entities kept", "<b>a &amp; b</b>", "a &amp; b"},
		{"unmatched open bracket kept", "price < FUBAR", "price < FUBAR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StripTags(tt.input); got != tt.expected {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
