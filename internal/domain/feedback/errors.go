package feedback

import (
	"errors"
	"fmt"
)

var (
	ErrThreadNotFound       = errors.New("thread not found")
	ErrThreadDeleted        = errors.New("thread is deleted")
	ErrThreadAlreadyDeleted = errors.New("thread already deleted")
	ErrThreadNotDeleted     = errors.New("thread is not deleted")
	ErrLegacyNotFound       = errors.New("legacy feedback not found")
)

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
