package assets

import (
	"fmt"
	"strings"
)

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "default"

// StyleLoader loads stylesheets by name (without the .css extension).
type StyleLoader interface {
	// LoadStyle returns ErrStyleNotFound if the style doesn't exist and
	// ErrInvalidStyleName if the name is unsafe.
	LoadStyle(name string) (string, error)

	// ListStyles returns the available style names, sorted.
	ListStyles() ([]string, error)
}

// ValidateStyleName checks that a style name is safe for use as a filename.
// Dots are rejected too, so callers cannot pick another extension.
func ValidateStyleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
	}
	return nil
}
