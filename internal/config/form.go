package config

import (
	"fmt"
	"strings"
)

// ParseForm pairs the rows of a two-column abbreviation form.
// Cells are trimmed and fully blank rows dropped. The form is rejected with
// ErrMismatchedRows when the non-blank cells of the two columns differ in
// number, or when a row has only one of its two cells filled.
func ParseForm(abbreviations, meanings []string) ([]Abbreviation, error) {
	filledA, filledM := countFilled(abbreviations), countFilled(meanings)
	if filledA != filledM {
		return nil, fmt.Errorf("%w: %d abbreviations, %d meanings", ErrMismatchedRows, filledA, filledM)
	}

	rows := max(len(abbreviations), len(meanings))
	out := make([]Abbreviation, 0, filledA)
	for i := range rows {
		a, m := cell(abbreviations, i), cell(meanings, i)
		switch {
		case a == "" && m == "":
			continue
		case a == "" || m == "":
			return nil, fmt.Errorf("%w: row %d has only one value", ErrMismatchedRows, i+1)
		}
		out = append(out, Abbreviation{Abbreviation: a, Meaning: m})
	}
	return out, nil
}

func cell(col []string, i int) string {
	if i >= len(col) {
		return ""
	}
	return strings.TrimSpace(col[i])
}

func countFilled(col []string) int {
	n := 0
	for _, v := range col {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
