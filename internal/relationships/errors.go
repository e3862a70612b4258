package relationships

import "errors"

var (
	// ErrNotFound signals a missing relationship row or endpoint.
	ErrNotFound = errors.New("relationship not found")

	// ErrConflict signals the child is already attached to the parent, or
	// that the relationship set changed underneath a bulk update.
	ErrConflict = errors.New("relationship already exists")

	// ErrInvalidOrder signals a reorder request that is not a permutation
	// of the currently attached children.
	ErrInvalidOrder = errors.New("all items, and only those, must be included")
)
