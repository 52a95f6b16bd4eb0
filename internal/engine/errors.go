package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNilRequest is a caller contract violation: Authorize needs a request.
	ErrNilRequest = errors.New("engine: nil payment request")

	// ErrNilStore is returned by New when no account store is supplied.
	ErrNilStore = errors.New("engine: nil account store")

	// ErrNilRegistry is returned by New when no validator registry is supplied.
	ErrNilRegistry = errors.New("engine: nil validator registry")
)

// StoreOp names the store operation that failed.
type StoreOp string

const (
	StoreOpGet    StoreOp = "get_account"
	StoreOpUpdate StoreOp = "update_account"
)

// StoreError wraps a store failure with the request context it happened in.
// It is what the engine hands to the ErrorReporter.
type StoreError struct {
	Op        StoreOp
	AccountID string
	RequestID string
	Partition int
	Err       error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s %s (partition=%d, request=%s): %v", e.Op, e.AccountID, e.Partition, e.RequestID, e.Err)
	}
	return fmt.Sprintf("%s %s (partition=%d): %v", e.Op, e.AccountID, e.Partition, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err is a StoreError for op.
// Uses errors.As to handle wrapped errors.
func IsStoreError(err error, op StoreOp) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Op == op
	}
	return false
}
