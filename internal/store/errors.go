package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStore matches every error returned by a Store backend.
	ErrStore = errors.New("store operation failed")

	// ErrNoMatch is returned when an operation required a matching record and found none.
	ErrNoMatch = errors.New("no matching record")

	// ErrEmptyFilter guards update and delete against touching a whole collection.
	ErrEmptyFilter = errors.New("filter must not be empty")
)

// OpError carries the failing operation and the underlying cause.
type OpError struct {
	Op         string
	Collection string
	Err        error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Is makes every OpError match ErrStore.
func (e *OpError) Is(target error) bool { return target == ErrStore }

// NoMatch builds the error used when an operation matched nothing.
func NoMatch(op, collection string) error {
	return &OpError{Op: op, Collection: collection, Err: ErrNoMatch}
}

func wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	return &OpError{Op: op, Collection: collection, Err: err}
}
