package main

import (
	"errors"

	abbreviator "github.com/alnah/go-abbreviator"
	"github.com/alnah/go-abbreviator/internal/assets"
	"github.com/alnah/go-abbreviator/internal/config"
	"github.com/alnah/go-abbreviator/internal/hints"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	if errors.As(err, &notFound) {
		return hints.ForConfigNotFound(notFound.Tried)
	}

	var dup *abbreviator.DuplicateAbbreviationError
	if errors.As(err, &dup) {
		return hints.ForDuplicate(dup.Abbreviation)
	}

	var invalid *abbreviator.ValidationError
	if errors.As(err, &invalid) {
		return hints.ForEmptyField(invalid.Index)
	}

	var storeErr *storeOpenError
	if errors.As(err, &storeErr) {
		return hints.ForStore(storeErr.Path)
	}

	switch {
	case errors.Is(err, config.ErrMismatchedRows):
		return hints.ForMismatchedRows()
	case errors.Is(err, abbreviator.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.ListStyles())
	case errors.Is(err, abbreviator.ErrUnsupportedFormat):
		return hints.ForUnsupportedFormat()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
