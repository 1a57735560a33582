package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks CRUD calls referencing an absent entity. Nothing
	// is mutated when it is returned.
	ErrNotFound = errors.New("not found")

	// ErrInvalidImport marks import payloads that fail validation. The
	// existing document is left untouched.
	ErrInvalidImport = errors.New("import payload is not a valid backup")

	// ErrNoSession is returned when no login record exists.
	ErrNoSession = errors.New("no active session")

	// ErrSessionExpired is returned when the login record has lapsed.
	ErrSessionExpired = errors.New("session has expired")
)

// CapacityError reports a rejected create at a hard entity cap.
type CapacityError struct {
	Entity string
	Limit  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("maximum %d %s allowed", e.Limit, e.Entity)
}

// StorageError wraps a persistence failure that survived the single
// evict-and-retry attempt.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
