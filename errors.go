package abbreviator

import (
	"errors"
	"fmt"

	"github.com/alnah/go-abbreviator/internal/assets"
	"github.com/alnah/go-abbreviator/internal/metastore"
	"github.com/alnah/go-abbreviator/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// Registry build errors. Returned wrapped in *ValidationError and
	// *DuplicateAbbreviationError.
	ErrValidation            = errors.New("invalid abbreviation entry")
	ErrDuplicateAbbreviation = errors.New("duplicate abbreviation")

	// Document errors.
	ErrEmptyDocumentID   = errors.New("document ID cannot be empty")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrHTMLConversion    = pipeline.ErrHTMLConversion

	// Style errors.
	ErrStyleNotFound   = assets.ErrStyleNotFound
	ErrReadStyle       = errors.New("failed to read style file")
	ErrInvalidStyleDir = assets.ErrInvalidStyleDir
	ErrInvalidStyle    = assets.ErrInvalidStyleName

	// Store errors.
	ErrStore = metastore.ErrStore
)

// ValidationError reports an entry whose abbreviation or meaning is empty
// after trimming.
type ValidationError struct {
	Field string // "abbreviation" or "meaning"
	Index int    // position in the definition list, -1 when not applicable
	Value string // the value as given, before trimming
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s is empty", ErrValidation, e.Field)
	}
	return fmt.Sprintf("%s: entry %d: %s is empty", ErrValidation, e.Index, e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateAbbreviationError reports an abbreviation that is already present
// in the registry.
type DuplicateAbbreviationError struct {
	Abbreviation string
	Index        int // position of the rejected entry
}

func (e *DuplicateAbbreviationError) Error() string {
	return fmt.Sprintf("%s: %q (entry %d)", ErrDuplicateAbbreviation, e.Abbreviation, e.Index)
}

func (e *DuplicateAbbreviationError) Unwrap() error { return ErrDuplicateAbbreviation }
