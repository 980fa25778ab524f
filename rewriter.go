package abbreviator

import "github.com/alnah/go-abbreviator/internal/pipeline"

// Strategy identifies how a rewrite substituted abbreviations.
type Strategy = pipeline.Strategy

// Substitution strategies reported in Decision.
const (
	StrategyNone    = pipeline.StrategyNone
	StrategyBulk    = pipeline.StrategyBulk
	StrategyCareful = pipeline.StrategyCareful
)

// Compile-time interface implementation check.
var _ pipeline.AbbrInjector = (*pipeline.Matcher)(nil)

// Decision is the outcome of checking one piece of content.
type Decision struct {
	// HasAbbreviations is false when no abbreviation occurs at a word
	// boundary. Nothing else is computed in that case.
	HasAbbreviations bool `json:"hasAbbreviations"`

	// HasAbbreviationsInsideTags is true when at least one abbreviation
	// occurs inside tag markup, or when unequal '<' and '>' counts made
	// that impossible to verify.
	HasAbbreviationsInsideTags bool `json:"hasAbbreviationsInsideTags"`

	BracketsBalanced bool     `json:"bracketsBalanced"`
	Strategy         Strategy `json:"-"`

	// Rewritten holds the transformed content. Empty when HasAbbreviations
	// is false.
	Rewritten string `json:"rewritten,omitempty"`
}

// Content returns the rewritten text, or original when nothing matched.
func (d Decision) Content(original string) string {
	if !d.HasAbbreviations {
		return original
	}
	return d.Rewritten
}

// Rewrite wraps every whole-word abbreviation outside tag markup in its tag.
// Content without matches, and any content given a nil or empty registry, is
// returned unchanged.
//
// When an abbreviation's text occurs inside another entry's meaning, the
// result depends on registry order and is not specified.
func Rewrite(content string, r *Registry) string {
	m := r.compiled()
	if m == nil {
		return content
	}
	return m.Rewrite(content)
}

// Analyze runs the same checks as Rewrite and reports them with the result.
func Analyze(content string, r *Registry) Decision {
	m := r.compiled()
	if m == nil {
		return Decision{}
	}

	a := m.Analyze(content)
	if !a.HasMatches {
		return Decision{}
	}
	return Decision{
		HasAbbreviations:           true,
		HasAbbreviationsInsideTags: a.AnyInsideTags(),
		BracketsBalanced:           a.Balanced,
		Strategy:                   a.Strategy(),
		Rewritten:                  m.Apply(content, a),
	}
}
