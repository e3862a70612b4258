package relationships

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for one Kind.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string][]Row // parentID -> rows
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[string][]Row),
	}
}

// Add inserts a row at the position already set on it.
func (s *MemoryStore) Add(ctx context.Context, row Row) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(row)
}

// Append inserts a row one past the parent's current maximum position.
func (s *MemoryStore) Append(ctx context.Context, row Row) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := make([]int, 0, len(s.rows[row.ParentID]))
	for _, existing := range s.rows[row.ParentID] {
		positions = append(positions, existing.Position)
	}
	row.Position = NextPosition(positions)
	return s.addLocked(row)
}

// Get returns the row for (parentID, childID).
func (s *MemoryStore) Get(ctx context.Context, parentID, childID string) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.rows[parentID] {
		if row.ChildID == childID {
			return row, nil
		}
	}
	return Row{}, ErrNotFound
}

// GetAll returns the parent's rows ascending by position.
func (s *MemoryStore) GetAll(ctx context.Context, parentID string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Row, len(s.rows[parentID]))
	copy(out, s.rows[parentID])
	sort.Slice(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

// UpdatePosition moves one row to a new position.
func (s *MemoryStore) UpdatePosition(ctx context.Context, parentID, childID string, position int) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.rows[parentID]
	for i := range rows {
		if rows[i].ChildID == childID {
			rows[i].Position = position
			return rows[i], nil
		}
	}
	return Row{}, ErrNotFound
}

// UpdateAllPositions applies a reorder mapping all-or-nothing.
func (s *MemoryStore) UpdateAllPositions(ctx context.Context, parentID string, positions map[string]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.rows[parentID]
	if len(rows) != len(positions) {
		return ErrConflict
	}
	for _, row := range rows {
		if _, ok := positions[row.ChildID]; !ok {
			return ErrConflict
		}
	}
	for i := range rows {
		rows[i].Position = positions[rows[i].ChildID]
	}
	return nil
}

// Delete detaches if present; deleting an absent row is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, parentID, childID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.rows[parentID]
	for i := range rows {
		if rows[i].ChildID == childID {
			s.rows[parentID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// DeleteAllForParent removes every row under the parent.
func (s *MemoryStore) DeleteAllForParent(ctx context.Context, parentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, parentID)
	return nil
}

// DeleteChildEverywhere removes the child's rows under every parent. It is
// the in-memory analog of the cascade that fires when a child entity is
// deleted from the library.
func (s *MemoryStore) DeleteChildEverywhere(ctx context.Context, childID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for parentID, rows := range s.rows {
		kept := rows[:0]
		for _, row := range rows {
			if row.ChildID != childID {
				kept = append(kept, row)
			}
		}
		s.rows[parentID] = kept
	}
	return nil
}

// MigrateChildVersion repoints every row at (childID, fromVersion), across
// all parents, to toVersion. Used when a versioned child mints a new
// version. Returns the number of rows moved.
func (s *MemoryStore) MigrateChildVersion(ctx context.Context, childID string, fromVersion, toVersion int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := 0
	for parentID, rows := range s.rows {
		for i := range rows {
			if rows[i].ChildID == childID && rows[i].Version == fromVersion {
				rows[i].Version = toVersion
				moved++
			}
		}
		s.rows[parentID] = rows
	}
	return moved, nil
}

func (s *MemoryStore) addLocked(row Row) (Row, error) {
	for _, existing := range s.rows[row.ParentID] {
		if existing.ChildID == row.ChildID {
			return Row{}, ErrConflict
		}
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.CreatedAt = time.Now().UTC()
	s.rows[row.ParentID] = append(s.rows[row.ParentID], row)
	return row, nil
}

var _ Store = (*MemoryStore)(nil)
