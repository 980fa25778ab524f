// Package abbreviator wraps abbreviations found in HTML content in
// <abbr title="..."> elements.
//
// # Quick Start
//
// Build a registry, then rewrite content with it:
//
//	reg, err := abbreviator.BuildRegistry([]abbreviator.Definition{
//	    {Abbreviation: "FUBAR", Meaning: "Fouled Up Beyond All Recognition"},
//	    {Abbreviation: "SNAFU", Meaning: "Situation Normal All Fouled Up"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := abbreviator.Rewrite(`<p>Total FUBAR.</p>`, reg)
//	// <p>Total <abbr title="Fouled Up Beyond All Recognition">FUBAR</abbr>.</p>
//
// # Matching Rules
//
// Abbreviations are literal tokens matched at word boundaries, so "FUBAR"
// never matches inside "FUBARS". Occurrences inside tag markup, such as
// attribute values, are left alone. Tag boundaries are found by counting
// '<' and '>' characters, not by parsing HTML:
//
//  1. Content without any abbreviation is returned unchanged.
//  2. When '<' and '>' counts differ, every abbreviation goes through the
//     split-and-rebuild strategy, which keeps the literal text wherever the
//     rebuilt prefix has an unclosed '<'.
//  3. Otherwise each abbreviation whose match count drops once tags are
//     stripped uses split-and-rebuild, and the rest are replaced directly.
//  4. When nothing is inside a tag, all abbreviations are replaced in one
//     simultaneous pass.
//
// Entries are applied in registry order. If an abbreviation's text appears
// in another entry's meaning the output depends on that order and is not
// specified.
//
// # Caching Decisions
//
// ContentFilter remembers per document whether a rewrite was needed, in any
// Store (NewMemoryStore, OpenSQLiteStore). A decision is reused until the
// document, a watched file, or an InvalidateAll call is newer than it:
//
//	store, err := abbreviator.OpenSQLiteStore(ctx, "decisions.db")
//	filter := abbreviator.NewContentFilter(store,
//	    abbreviator.WithWatchedFiles("abbreviations.yaml"))
//	res, err := filter.Filter(ctx, reg, abbreviator.Document{
//	    ID: "post-42", Modified: modTime, Content: html,
//	})
//
// # Documents
//
// Processor adds Markdown rendering (Goldmark, GFM) and optional stylesheet
// injection on top of the filter.
package abbreviator
