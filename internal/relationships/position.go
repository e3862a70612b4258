package relationships

// NextPosition returns the position for an appended row: one past the
// largest existing position, or 0 for an empty set. Detaches leave gaps and
// manual inserts can be out of order, so the maximum is what matters, never
// the row count.
func NextPosition(existing []int) int {
	if len(existing) == 0 {
		return 0
	}
	max := existing[0]
	for _, p := range existing[1:] {
		if p > max {
			max = p
		}
	}
	return max + 1
}

// ReorderPositions validates that requested names every current child
// exactly once and returns the dense 0..N-1 position mapping implied by its
// order. Any omission, extra ID, or duplicate yields ErrInvalidOrder.
func ReorderPositions(current, requested []string) (map[string]int, error) {
	if len(requested) != len(current) {
		return nil, ErrInvalidOrder
	}
	positions := make(map[string]int, len(requested))
	for i, id := range requested {
		if _, dup := positions[id]; dup {
			return nil, ErrInvalidOrder
		}
		positions[id] = i
	}
	for _, id := range current {
		if _, ok := positions[id]; !ok {
			return nil, ErrInvalidOrder
		}
	}
	return positions, nil
}
