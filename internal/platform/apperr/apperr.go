// Package apperr defines the error taxonomy shared by every service. Domain packages declare
// their own sentinels with New so callers can match either the specific error or its kind.
package apperr

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrProtected         = errors.New("protection violation")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrDegraded          = errors.New("external service degraded")
)

// Error is a message bound to one kind of the taxonomy.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// New returns a sentinel of the given kind.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns the taxonomy root err belongs to, or nil for unclassified errors.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrValidation,
		ErrNotFound,
		ErrInvalidTransition,
		ErrProtected,
		ErrUnauthenticated,
		ErrUnauthorized,
		ErrConflict,
		ErrDegraded,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
