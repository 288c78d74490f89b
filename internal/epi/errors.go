package epi

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is a fatal configuration problem surfaced before work starts.
	ErrConfig = errors.New("configuration error")
	// ErrInvalidInput marks bad data that was recovered locally.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal marks a broken engine invariant, never a user error.
	ErrInternal = errors.New("internal error")
)

// Error tags a message with one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
