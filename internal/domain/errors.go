package domain

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks failures to reach the invoicing backend at all, as
// opposed to an answer it gave.
var ErrUnavailable = errors.New("invoicing backend unavailable")

// StatusError reports a non-2xx answer from the invoicing backend.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// RejectedError is returned when the backend answered but refused the
// operation. Message is the backend's own text.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}
