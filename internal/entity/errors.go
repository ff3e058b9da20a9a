package entity

import "errors"

// Domain errors
var (
	// Lookup errors
	ErrNotFound = errors.New("not found")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrFileSystem       = errors.New("file system error")

	// Backend errors
	ErrIngestion          = errors.New("ingestion failed")
	ErrQuery              = errors.New("query failed")
	ErrBackend            = errors.New("backend request failed")
	ErrBackendUnavailable = errors.New("backend unavailable")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// IsValidationError reports whether err was caused by bad client input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrInvalidFile) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrInvalidExtension)
}
