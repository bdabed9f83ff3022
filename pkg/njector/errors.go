package njector

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry operations.
var (
	// ErrDuplicateKey indicates Add was called with a key that is already registered.
	ErrDuplicateKey = errors.New("service already registered")

	// ErrNotFound indicates Get or Remove was called with a key that is not registered.
	ErrNotFound = errors.New("service not registered")
)

// Operation names used in KeyError, logs, and spans.
const (
	OpAdd    = "add"
	OpGet    = "get"
	OpRemove = "remove"
)

// KeyError wraps a registry error with the operation and key involved.
type KeyError struct {
	// Op is the operation that failed: OpAdd, OpGet or OpRemove.
	Op string
	// Key is the service key the operation was called with.
	Key string
	// Err is ErrDuplicateKey or ErrNotFound.
	Err error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	switch {
	case errors.Is(e.Err, ErrDuplicateKey):
		return fmt.Sprintf("attempted to %s a service that has already been registered: %s", e.Op, e.Key)
	case errors.Is(e.Err, ErrNotFound):
		return fmt.Sprintf("attempted to %s a service that has not been registered: %s", e.Op, e.Key)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *KeyError) Unwrap() error {
	return e.Err
}

// Reason returns a short label for the failure, used as a metric attribute.
func (e *KeyError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(e.Err, ErrNotFound):
		return "not_found"
	default:
		return "unknown"
	}
}
