package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a unique constraint violation, e.g. a reused email.
	ErrConflict = errors.New("conflict")
	// ErrInvalidReference marks a foreign key violation.
	ErrInvalidReference = errors.New("invalid reference")
)

// QueryError is returned when the store rejects a statement: bad SQL,
// constraint violation or a lost connection. Callers can tell it apart from an
// empty result, which is a nil error and an empty slice.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// NewQueryError wraps err unless it is nil or already a sentinel the caller
// branches on.
func NewQueryError(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return &QueryError{Op: op, Err: err}
}
