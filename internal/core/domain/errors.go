package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no date (or no remote entity) was found.
	ErrNotFound = errors.New("not found")

	// ErrMissingRelations is returned when a work has no recording relations.
	ErrMissingRelations = errors.New("work has no recording relations")
)

// ParseError reports a date string that does not even carry a valid year.
type ParseError struct {
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse date %q: %s", e.Value, e.Reason)
}

// NetworkError is a transient failure talking to the remote API. It is the
// only error kind that is retried.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err wraps a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
