package main

import (
	"errors"
	"os"

	abbreviator "github.com/alnah/go-abbreviator"
	"github.com/alnah/go-abbreviator/internal/config"
)

// Exit codes for the abbreviator CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All files processed
	ExitGeneral = 1 // General/unexpected error, or some files failed
	ExitUsage   = 2 // Invalid flags, config, or abbreviation list
	ExitIO      = 3 // File not found, permission denied
	ExitStore   = 4 // Decision cache could not be opened or used
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Store errors (exit 4)
	if errors.Is(err, abbreviator.ErrStore) {
		return ExitStore
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrSingleOutput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrMismatchedRows) ||
		errors.Is(err, abbreviator.ErrValidation) ||
		errors.Is(err, abbreviator.ErrDuplicateAbbreviation) ||
		errors.Is(err, abbreviator.ErrUnsupportedFormat) ||
		errors.Is(err, abbreviator.ErrStyleNotFound) ||
		errors.Is(err, abbreviator.ErrInvalidStyle) ||
		errors.Is(err, abbreviator.ErrInvalidStyleDir) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, abbreviator.ErrReadStyle) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoFiles) {
		return ExitIO
	}

	return ExitGeneral
}
