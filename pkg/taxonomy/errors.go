package taxonomy

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLevel  = errors.New("taxonomy: unknown level")
	ErrMissingName   = errors.New("taxonomy: name is required")
	ErrMissingParent = errors.New("taxonomy: parent id is required")
	ErrNoBaseURL     = errors.New("taxonomy: base url is not configured")
)

// StatusError reports a non-2xx answer from the taxonomy service.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("taxonomy: %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("taxonomy: %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
}
