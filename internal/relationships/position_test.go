package relationships

import (
	"errors"
	"testing"
)

func TestNextPositionEmpty(t *testing.T) {
	if got := NextPosition(nil); got != 0 {
		t.Fatalf("expected 0 for empty set, got %d", got)
	}
}

func TestNextPositionUsesMaxNotCount(t *testing.T) {
	// Two rows with positions {9, 3} must yield 10, not 2.
	if got := NextPosition([]int{9, 3}); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestNextPositionSequential(t *testing.T) {
	if got := NextPosition([]int{0, 1, 2}); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestReorderPositionsAssignsDenseOrder(t *testing.T) {
	current := []string{"a", "b", "c"}
	positions, err := ReorderPositions(current, []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("ReorderPositions: %v", err)
	}
	if positions["c"] != 0 || positions["a"] != 1 || positions["b"] != 2 {
		t.Fatalf("unexpected mapping: %v", positions)
	}
}

func TestReorderPositionsRejectsMissingItem(t *testing.T) {
	_, err := ReorderPositions([]string{"a", "b", "c"}, []string{"c", "a"})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestReorderPositionsRejectsUnknownItem(t *testing.T) {
	_, err := ReorderPositions([]string{"a", "b"}, []string{"a", "x"})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestReorderPositionsRejectsDuplicates(t *testing.T) {
	_, err := ReorderPositions([]string{"a", "b"}, []string{"a", "a"})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}
