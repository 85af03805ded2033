// Package apperr defines the error kinds shared by every domain package.
// Domain errors carry one of the base kinds so transport layers can map them
// without knowing each domain's sentinel values.
package apperr

import "errors"

// Base kinds, checked with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnprocessable = errors.New("unprocessable state")
)

// Error is a domain error tagged with a base kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the kind so errors.Is(err, apperr.ErrConflict) matches.
func (e *Error) Unwrap() error {
	return e.Kind
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error {
	return New(ErrNotFound, message)
}

func Conflict(message string) *Error {
	return New(ErrConflict, message)
}

func Unprocessable(message string) *Error {
	return New(ErrUnprocessable, message)
}

// KindOf returns the base kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrUnprocessable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
