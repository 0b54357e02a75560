package models

import "errors"

var (
	// ErrNotFound is returned when a well-formed query matches no row.
	ErrNotFound = errors.New("policy not found")
	// ErrEmptyComment is returned for feedback that is empty after trimming.
	ErrEmptyComment = errors.New("empty feedback comment")
	// ErrInvalidFeedback is returned for feedback failing field validation.
	ErrInvalidFeedback = errors.New("invalid feedback")
)

// FetchError reports a failed round trip to the data service.
type FetchError struct {
	// Op names the operation that failed, e.g. "list policies".
	Op string
	// Err is the underlying transport or service error.
	Err error
}

func (e *FetchError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
