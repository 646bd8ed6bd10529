package feedback

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned when the store holds no live session.
	ErrNoSession = errors.New("feedback: no active session")
	// ErrUnauthorized is returned on HTTP 401. The stored session has
	// already been cleared when it is returned.
	ErrUnauthorized = errors.New("feedback: unauthorized")
	// ErrMalformedResponse is returned when a payload does not match its
	// schema. Missing or invalid fields are never defaulted.
	ErrMalformedResponse = errors.New("feedback: malformed response")
)

// Error kinds reported by the service.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found"
	KindForbidden    = "forbidden"
	KindConflict     = "conflict"
	KindUnauthorized = "unauthorized"
	KindUnavailable  = "unavailable"
	KindInternal     = "internal_error"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
	Details    string
	Retryable  bool
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error: status=%d kind=%s message=%s (%s)", e.StatusCode, e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("api error: status=%d kind=%s message=%s", e.StatusCode, e.Kind, e.Message)
}

// IsNotFound reports whether err is an APIError of kind not_found.
func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

// IsForbidden reports whether err is an APIError of kind forbidden.
func IsForbidden(err error) bool {
	return hasKind(err, KindForbidden)
}

// IsConflict reports whether err is an APIError of kind conflict.
func IsConflict(err error) bool {
	return hasKind(err, KindConflict)
}

func hasKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
