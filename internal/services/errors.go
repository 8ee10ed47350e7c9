package services

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrUnauthorized     = errors.New("not authorized")
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrMissingAgent     = errors.New("could not resolve the acting agent for this deal")
	ErrFiltersFailed    = errors.New("failed to fetch filters")
)

// ValidationError carries per-field messages from submit-time validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// IsValidation reports whether err is a validation failure and returns the
// field messages when it is.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
