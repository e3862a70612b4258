package ownership

import (
	"context"
	"errors"
)

// ErrForbidden signals that the entity exists but belongs to another user.
var ErrForbidden = errors.New("forbidden")

// Owned is implemented by every entity that belongs to a single user.
type Owned interface {
	OwnerID() string
}

// Verify loads an entity through load and asserts that userID owns it.
// Load errors (including the caller's not-found sentinel) pass through
// untouched so each package keeps its own error taxonomy. A mismatched
// owner always yields ErrForbidden, never a not-found.
func Verify[E Owned](ctx context.Context, userID string, load func(context.Context) (E, error)) (E, error) {
	entity, err := load(ctx)
	if err != nil {
		var zero E
		return zero, err
	}
	if entity.OwnerID() != userID {
		var zero E
		return zero, ErrForbidden
	}
	return entity, nil
}
