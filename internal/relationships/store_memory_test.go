package relationships

import (
	"context"
	"errors"
	"testing"
)

func appendChild(t *testing.T, store *MemoryStore, parentID, childID string) Row {
	t.Helper()
	row, err := store.Append(context.Background(), Row{ParentID: parentID, ChildID: childID})
	if err != nil {
		t.Fatalf("Append %s: %v", childID, err)
	}
	return row
}

func childOrder(rows []Row) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.ChildID
	}
	return out
}

func TestMemoryAppendAssignsSequentialPositions(t *testing.T) {
	store := NewMemoryStore()

	for i, childID := range []string{"a", "b", "c"} {
		row := appendChild(t, store, "doc-1", childID)
		if row.Position != i {
			t.Fatalf("expected position %d for %s, got %d", i, childID, row.Position)
		}
	}
}

func TestMemoryReorderDetachAppendScenario(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	appendChild(t, store, "doc-1", "a")
	appendChild(t, store, "doc-1", "b")
	appendChild(t, store, "doc-1", "c")

	positions, err := ReorderPositions([]string{"a", "b", "c"}, []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("ReorderPositions: %v", err)
	}
	if err := store.UpdateAllPositions(ctx, "doc-1", positions); err != nil {
		t.Fatalf("UpdateAllPositions: %v", err)
	}

	rows, err := store.GetAll(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	got := childOrder(rows)
	if got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("expected [c a b], got %v", got)
	}
	for i, row := range rows {
		if row.Position != i {
			t.Fatalf("expected dense positions after reorder, got %v", rows)
		}
	}

	if err := store.Delete(ctx, "doc-1", "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rows, err = store.GetAll(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetAll after detach: %v", err)
	}
	got = childOrder(rows)
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Fatalf("expected [c b], got %v", got)
	}

	// Remaining positions are {0, 2}; the next append lands at 3.
	row := appendChild(t, store, "doc-1", "x")
	if row.Position != 3 {
		t.Fatalf("expected appended position 3, got %d", row.Position)
	}
}

func TestMemoryAddDuplicateYieldsConflict(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Add(ctx, Row{ParentID: "doc-1", ChildID: "a", Position: 0}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err := store.Add(ctx, Row{ParentID: "doc-1", ChildID: "a", Position: 5})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMemoryDeleteAbsentIsNoOp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	appendChild(t, store, "doc-1", "a")
	if err := store.Delete(ctx, "doc-1", "missing"); err != nil {
		t.Fatalf("expected no-op delete, got %v", err)
	}

	rows, err := store.GetAll(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(rows) != 1 || rows[0].ChildID != "a" {
		t.Fatalf("relationship set changed: %v", rows)
	}
}

func TestMemoryGetAllOrdersGappedPositions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Add(ctx, Row{ParentID: "doc-1", ChildID: "high", Position: 9}); err != nil {
		t.Fatalf("Add high: %v", err)
	}
	if _, err := store.Add(ctx, Row{ParentID: "doc-1", ChildID: "low", Position: 3}); err != nil {
		t.Fatalf("Add low: %v", err)
	}

	rows, err := store.GetAll(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if rows[0].ChildID != "low" || rows[1].ChildID != "high" {
		t.Fatalf("expected ascending positions, got %v", childOrder(rows))
	}
}

func TestMemoryUpdateAllPositionsRejectsPartialMapping(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	appendChild(t, store, "doc-1", "a")
	appendChild(t, store, "doc-1", "b")

	err := store.UpdateAllPositions(ctx, "doc-1", map[string]int{"a": 0})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	rows, err := store.GetAll(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if rows[0].ChildID != "a" || rows[0].Position != 0 || rows[1].ChildID != "b" || rows[1].Position != 1 {
		t.Fatalf("positions changed despite rejected mapping: %v", rows)
	}
}

func TestMemoryMigrateChildVersionAcrossParents(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Add(ctx, Row{ParentID: "scope-1", ChildID: "lineage-1", Version: 1, Position: 0}); err != nil {
		t.Fatalf("Add scope-1: %v", err)
	}
	if _, err := store.Add(ctx, Row{ParentID: "scope-2", ChildID: "lineage-1", Version: 1, Position: 0}); err != nil {
		t.Fatalf("Add scope-2: %v", err)
	}
	if _, err := store.Add(ctx, Row{ParentID: "scope-3", ChildID: "lineage-1", Version: 7, Position: 0}); err != nil {
		t.Fatalf("Add scope-3: %v", err)
	}

	moved, err := store.MigrateChildVersion(ctx, "lineage-1", 1, 2)
	if err != nil {
		t.Fatalf("MigrateChildVersion: %v", err)
	}
	if moved != 2 {
		t.Fatalf("expected 2 rows moved, got %d", moved)
	}

	for _, scope := range []string{"scope-1", "scope-2"} {
		row, err := store.Get(ctx, scope, "lineage-1")
		if err != nil {
			t.Fatalf("Get %s: %v", scope, err)
		}
		if row.Version != 2 {
			t.Fatalf("expected %s at version 2, got %d", scope, row.Version)
		}
	}
	pinned, err := store.Get(ctx, "scope-3", "lineage-1")
	if err != nil {
		t.Fatalf("Get scope-3: %v", err)
	}
	if pinned.Version != 7 {
		t.Fatalf("row pinned at another version must not move, got %d", pinned.Version)
	}
}
