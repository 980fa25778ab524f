package abbreviator

import (
	"html"
	"strings"
)

// Entry is one abbreviation and the meaning shown for it.
// The zero value is not valid; use NewEntry or Registry.Add.
type Entry struct {
	abbreviation string
	meaning      string
}

// NewEntry trims both fields and returns a *ValidationError if either one is
// empty afterwards.
func NewEntry(abbreviation, meaning string) (Entry, error) {
	return newEntryAt(abbreviation, meaning, -1)
}

func newEntryAt(abbreviation, meaning string, index int) (Entry, error) {
	a := strings.TrimSpace(abbreviation)
	if a == "" {
		return Entry{}, &ValidationError{Field: "abbreviation", Index: index, Value: abbreviation}
	}
	m := strings.TrimSpace(meaning)
	if m == "" {
		return Entry{}, &ValidationError{Field: "meaning", Index: index, Value: meaning}
	}
	return Entry{abbreviation: a, meaning: m}, nil
}

// Abbreviation returns the literal token matched in content.
func (e Entry) Abbreviation() string { return e.abbreviation }

// Meaning returns the expansion placed in the title attribute.
func (e Entry) Meaning() string { return e.meaning }

// Tag renders the inline markup that replaces the abbreviation:
//
//	<abbr title="{meaning}">{abbreviation}</abbr>
//
// The meaning is attribute-escaped. The abbreviation is inserted as is so the
// element text matches the source text.
func (e Entry) Tag() string {
	return `<abbr title="` + html.EscapeString(e.meaning) + `">` + e.abbreviation + `</abbr>`
}

// Definition is the raw (abbreviation, meaning) pair supplied by
// configuration before validation.
type Definition struct {
	Abbreviation string `json:"abbreviation"`
	Meaning      string `json:"meaning"`
}
