package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedKind indicates an unknown repository kind.
	ErrUnsupportedKind = errors.New("unsupported repository kind")

	// ErrIngesterClosed indicates the ingester has been closed.
	ErrIngesterClosed = errors.New("ingester closed")
)
