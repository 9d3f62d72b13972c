package store

import "errors"

// Common store errors.
var (
	// ErrNotFound is returned when a document is not found.
	ErrNotFound = errors.New("document not found")
)
