package apperror

import (
	"errors"
	"fmt"
)

// Drafting error taxonomy. Callers match with errors.Is.
var (
	ErrOracleUnavailable       = errors.New("oracle unavailable")
	ErrOracleMalformedResponse = errors.New("oracle returned malformed response")
	ErrNoLocalMatch            = errors.New("no local template match")
	ErrNoWebMatch              = errors.New("no web template match")
	ErrReferentialNotFound     = errors.New("referenced record not found")
	ErrInvalidSelection        = errors.New("invalid selection")
	ErrInvalidInput            = errors.New("invalid input")
	ErrUnsupportedMedia        = errors.New("unsupported media type")
)

// NotFound wraps ErrReferentialNotFound with the kind and id that was missing.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrReferentialNotFound)
}

// Invalid wraps ErrInvalidInput with a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
