package pipeline

import (
	"regexp"
	"strings"
)

// Strategy identifies how a rewrite pass substitutes abbreviations.
type Strategy int

const (
	// StrategyNone means nothing matched and content is returned unchanged.
	StrategyNone Strategy = iota
	// StrategyBulk replaces every abbreviation in one simultaneous pass.
	StrategyBulk
	// StrategyCareful splits and rebuilds content per abbreviation,
	// leaving occurrences inside open tags untouched.
	StrategyCareful
)

// String returns the strategy name used in logs and CLI output.
func (s Strategy) String() string {
	switch s {
	case StrategyBulk:
		return "bulk"
	case StrategyCareful:
		return "careful"
	default:
		return "none"
	}
}

// Replacement pairs an abbreviation with the markup that replaces it.
type Replacement struct {
	Abbreviation string
	Tag          string
}

// Analysis is the outcome of inspecting content before a rewrite.
type Analysis struct {
	HasMatches bool
	Balanced   bool
	// InsideTags holds one flag per replacement, in replacement order.
	// Nil when nothing matched or when brackets are unbalanced.
	InsideTags []bool
}

// AnyInsideTags reports whether at least one replacement occurs inside tag
// markup. Unbalanced content counts as unverified and returns true.
func (a Analysis) AnyInsideTags() bool {
	if !a.HasMatches {
		return false
	}
	if !a.Balanced {
		return true
	}
	for _, in := range a.InsideTags {
		if in {
			return true
		}
	}
	return false
}

// Strategy returns the substitution strategy implied by the analysis.
func (a Analysis) Strategy() Strategy {
	switch {
	case !a.HasMatches:
		return StrategyNone
	case a.AnyInsideTags():
		return StrategyCareful
	default:
		return StrategyBulk
	}
}

// AbbrInjector defines the contract for abbreviation markup injection.
type AbbrInjector interface {
	Analyze(content string) Analysis
	Apply(content string, a Analysis) string
}

// Matcher holds compiled word-boundary patterns for an ordered set of
// replacements. It is immutable and safe for concurrent use.
type Matcher struct {
	reps  []Replacement
	each  []*regexp.Regexp
	any   *regexp.Regexp
	byAbb map[string]string
}

// NewMatcher compiles patterns for reps. Abbreviations are quoted, so any
// text is a valid literal token.
func NewMatcher(reps []Replacement) *Matcher {
	m := &Matcher{
		reps:  append([]Replacement(nil), reps...),
		each:  make([]*regexp.Regexp, len(reps)),
		byAbb: make(map[string]string, len(reps)),
	}
	if len(reps) == 0 {
		return m
	}

	alternatives := make([]string, len(reps))
	for i, r := range reps {
		p := wordPattern(r.Abbreviation)
		m.each[i] = regexp.MustCompile(p)
		alternatives[i] = p
		m.byAbb[r.Abbreviation] = r.Tag
	}
	m.any = regexp.MustCompile(strings.Join(alternatives, "|"))
	return m
}

// Len returns the number of replacements.
func (m *Matcher) Len() int {
	return len(m.reps)
}

// wordPattern matches abbr as a literal at word boundaries.
func wordPattern(abbr string) string {
	return `\b` + regexp.QuoteMeta(abbr) + `\b`
}

// Contains reports whether any abbreviation occurs at a word boundary.
func (m *Matcher) Contains(content string) bool {
	if m.any == nil {
		return false
	}
	return m.any.MatchString(content)
}

// Analyze runs the containment, bracket and in-tag tests on content.
func (m *Matcher) Analyze(content string) Analysis {
	if !m.Contains(content) {
		return Analysis{}
	}

	a := Analysis{HasMatches: true, Balanced: BracketsBalanced(content)}
	if !a.Balanced {
		return a
	}

	stripped := htmlTagPattern.ReplaceAllString(content, "")
	a.InsideTags = make([]bool, len(m.reps))
	for i, re := range m.each {
		raw := len(re.FindAllStringIndex(content, -1))
		if raw == 0 {
			continue
		}
		a.InsideTags[i] = raw != len(re.FindAllStringIndex(stripped, -1))
	}
	return a
}

// Apply rewrites content according to a previous Analyze of the same content.
func (m *Matcher) Apply(content string, a Analysis) string {
	switch a.Strategy() {
	case StrategyBulk:
		return m.Bulk(content)
	case StrategyCareful:
		return m.mixed(content, a)
	default:
		return content
	}
}

// mixed walks replacements in order: flagged ones (or all of them when the
// brackets are unbalanced) are rebuilt carefully, the rest are substituted
// directly.
func (m *Matcher) mixed(content string, a Analysis) string {
	for i, r := range m.reps {
		if !a.Balanced || i >= len(a.InsideTags) || a.InsideTags[i] {
			content = rebuild(content, m.each[i], r.Abbreviation, r.Tag)
			continue
		}
		content = m.each[i].ReplaceAllLiteralString(content, r.Tag)
	}
	return content
}

// Rewrite analyzes content and applies the chosen strategy.
func (m *Matcher) Rewrite(content string) string {
	return m.Apply(content, m.Analyze(content))
}

// Bulk replaces every abbreviation with its tag in one pass. Replacement
// text is never scanned again.
func (m *Matcher) Bulk(content string) string {
	if m.any == nil {
		return content
	}
	return m.any.ReplaceAllStringFunc(content, func(match string) string {
		return m.byAbb[match]
	})
}

// Careful rewrites each abbreviation in order, skipping occurrences that
// fall inside an unclosed tag of the text rebuilt so far. Later
// abbreviations see the output of earlier ones.
func (m *Matcher) Careful(content string) string {
	for i, r := range m.reps {
		content = rebuild(content, m.each[i], r.Abbreviation, r.Tag)
	}
	return content
}

// rebuild splits content on re and joins the fragments back, choosing per
// boundary between the literal abbreviation and its tag.
func rebuild(content string, re *regexp.Regexp, abbr, tag string) string {
	parts := re.Split(content, -1)
	if len(parts) < 2 {
		return content
	}

	var buf strings.Builder
	if grow := len(content) + (len(parts)-1)*(len(tag)-len(abbr)); grow > 0 {
		buf.Grow(grow)
	}

	var b bracketCount
	last := len(parts) - 1
	for i, part := range parts {
		buf.WriteString(part)
		b.add(part)
		if i == last {
			break
		}

		insert := tag
		if !b.balanced() {
			insert = abbr
		}
		buf.WriteString(insert)
		b.add(insert)
	}
	return buf.String()
}

// bracketCount tracks '<' and '>' totals of a growing string.
type bracketCount struct {
	open, close int
}

func (b *bracketCount) add(s string) {
	b.open += strings.Count(s, "<")
	b.close += strings.Count(s, ">")
}

func (b *bracketCount) balanced() bool {
	return b.open == b.close
}

// BracketsBalanced reports whether text has as many '<' as '>'.
// A count mismatch stands in for "a tag is still open"; no parsing happens.
func BracketsBalanced(text string) bool {
	return strings.Count(text, "<") == strings.Count(text, ">")
}
