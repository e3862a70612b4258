package relationships

import "context"

// Store is the ordered join-table contract, implemented once and
// instantiated per Kind.
type Store interface {
	// Add inserts a row at an explicit position. A duplicate (parent, child)
	// pair yields ErrConflict; a missing endpoint yields ErrNotFound.
	Add(ctx context.Context, row Row) (Row, error)

	// Append inserts a row one position past the parent's current maximum,
	// serialized against concurrent appends and reorders on the same parent.
	Append(ctx context.Context, row Row) (Row, error)

	Get(ctx context.Context, parentID, childID string) (Row, error)

	// GetAll returns the parent's rows ascending by position.
	GetAll(ctx context.Context, parentID string) ([]Row, error)

	UpdatePosition(ctx context.Context, parentID, childID string, position int) (Row, error)

	// UpdateAllPositions applies a reorder mapping atomically. The mapping
	// must cover exactly the parent's current children; a mismatch (for
	// example a concurrent attach or detach) yields ErrConflict and nothing
	// is written.
	UpdateAllPositions(ctx context.Context, parentID string, positions map[string]int) error

	// Delete detaches if present. Deleting an absent row is a no-op.
	Delete(ctx context.Context, parentID, childID string) error

	// DeleteAllForParent removes every row under the parent.
	DeleteAllForParent(ctx context.Context, parentID string) error
}
