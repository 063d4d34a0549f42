package store

import (
	"errors"
	"fmt"
)

// Kind categorizes storage errors.
type Kind string

const (
	// KindOpen indicates the database file could not be opened or configured.
	KindOpen Kind = "OPEN"

	// KindSchema indicates the tables could not be created.
	KindSchema Kind = "SCHEMA"

	// KindWrite indicates AddPerson failed; its transaction was rolled back.
	KindWrite Kind = "WRITE"

	// KindRead indicates a query or row scan failed.
	KindRead Kind = "READ"
)

// Error is returned by every Store operation that fails in the storage engine.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Op names the step that failed (e.g. "insert person").
	Op string

	// Err is the underlying driver error.
	Err error
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind returns true if err wraps a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
