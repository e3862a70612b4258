package snippets

import "errors"

var (
	// ErrNotFound signals a missing lineage or version.
	ErrNotFound = errors.New("snippet not found")

	// ErrInvalidInput signals a malformed snippet request.
	ErrInvalidInput = errors.New("invalid snippet input")

	// ErrConflict signals a version token collision within a lineage.
	ErrConflict = errors.New("snippet version already exists")
)
