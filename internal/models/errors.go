package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an order, reservation or catalog entry does
	// not exist, or a catalog entry exists but cannot be ordered.
	ErrNotFound = errors.New("not found")

	// ErrInvalidValue is returned for values outside a recognized enumeration
	// or malformed input the service layer cannot accept.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidTransition is returned when an order cannot move to the
	// requested state.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Error carries a client-facing message and unwraps to one of the sentinel
// errors above, so callers can match it with errors.Is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidValuef(format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidValue, Msg: fmt.Sprintf(format, args...)}
}

func InvalidTransitionf(format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidTransition, Msg: fmt.Sprintf(format, args...)}
}
