// Package pipeline implements the string stages of abbreviation rewriting.
//
// The stages are:
//   - Markdown to HTML fragment conversion via Goldmark (Markdown sources only)
//   - Abbreviation analysis and substitution (Matcher)
//   - Stylesheet injection for rendered <abbr> elements
//
// Tag boundaries are found by counting '<' and '>' characters rather than by
// parsing HTML. Content with unequal counts is still processed, using the
// split-and-rebuild strategy for every abbreviation.
package pipeline
