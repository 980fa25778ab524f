package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		abbreviations []string
		meanings      []string
		expected      []Abbreviation
		wantErr       bool
	}{
		{
			name:          "rows paired and trimmed",
			abbreviations: []string{" FUBAR ", "SNAFU"},
			meanings:      []string{"Fouled Up", "\tSituation Normal\n"},
			expected:      []Abbreviation{{"FUBAR", "Fouled Up"}, {"SNAFU", "Situation Normal"}},
		},
		{
			name:          "blank rows dropped",
			abbreviations: []string{"", "FUBAR", "  "},
			meanings:      []string{" ", "Fouled Up", ""},
			expected:      []Abbreviation{{"FUBAR", "Fouled Up"}},
		},
		{
			name:          "trailing blank cells in a longer column",
			abbreviations: []string{"FUBAR", "", ""},
			meanings:      []string{"Fouled Up"},
			expected:      []Abbreviation{{"FUBAR", "Fouled Up"}},
		},
		{
			name:     "empty form",
			expected: []Abbreviation{},
		},
		{
			name:          "more abbreviations than meanings",
			abbreviations: []string{"FUBAR", "SNAFU"},
			meanings:      []string{"Fouled Up", ""},
			wantErr:       true,
		},
		{
			name:          "equal counts on different rows",
			abbreviations: []string{"FUBAR", ""},
			meanings:      []string{"", "Fouled Up"},
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseForm(tt.abbreviations, tt.meanings)
			if tt.wantErr {
				if !errors.Is(err, ErrMismatchedRows) {
					t.Fatalf("ParseForm() error = %v, want ErrMismatchedRows", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseForm() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ParseForm() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
