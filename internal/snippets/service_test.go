package snippets

import (
	"context"
	"errors"
	"testing"

	"resume-composer/internal/ownership"
	"resume-composer/internal/relationships"
)

func strptr(s string) *string { return &s }

func newTestService(t *testing.T) (*Service, *relationships.MemoryStore) {
	t.Helper()
	bullets := relationships.NewMemoryStore()
	return &Service{Store: NewMemoryStore(bullets)}, bullets
}

func TestCreateLineageRequiresContent(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateLineage(context.Background(), "user-1", "", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateLineageDefaultsKind(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateLineage(context.Background(), "user-1", "", "Shipped the feature")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}
	if created.Kind != DefaultKind {
		t.Fatalf("expected kind %q, got %q", DefaultKind, created.Kind)
	}
	if created.LineageID == "" || created.Version <= 0 {
		t.Fatalf("expected lineage id and positive version, got %+v", created)
	}
}

func TestEditMigratesEveryPlacementAndKeepsOldVersion(t *testing.T) {
	ctx := context.Background()
	svc, bullets := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "Cut latency by 40%")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}

	// The same lineage placed under two different experience rows.
	for _, scope := range []string{"row-1", "row-2"} {
		if _, err := bullets.Add(ctx, relationships.Row{
			ParentID: scope,
			ChildID:  created.LineageID,
			Version:  created.Version,
			Position: 0,
		}); err != nil {
			t.Fatalf("Add(%s): %v", scope, err)
		}
	}

	edited, err := svc.Edit(ctx, "user-1", created.LineageID, created.Version, nil, strptr("Cut latency by 60%"))
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if edited.Version <= created.Version {
		t.Fatalf("new version %d must exceed %d", edited.Version, created.Version)
	}
	if edited.Kind != created.Kind {
		t.Fatalf("kind must carry over, got %q", edited.Kind)
	}

	for _, scope := range []string{"row-1", "row-2"} {
		rows, err := bullets.GetAll(ctx, scope)
		if err != nil {
			t.Fatalf("GetAll(%s): %v", scope, err)
		}
		if len(rows) != 1 || rows[0].Version != edited.Version {
			t.Fatalf("placement in %s must point at version %d, got %+v", scope, edited.Version, rows)
		}
	}

	// The superseded version remains readable by explicit lookup.
	old, err := svc.Get(ctx, "user-1", created.LineageID, created.Version)
	if err != nil {
		t.Fatalf("Get old version: %v", err)
	}
	if old.Content != "Cut latency by 40%" {
		t.Fatalf("old content must survive, got %q", old.Content)
	}

	latest, err := svc.Get(ctx, "user-1", created.LineageID, 0)
	if err != nil {
		t.Fatalf("Get latest: %v", err)
	}
	if latest.Version != edited.Version || latest.Content != "Cut latency by 60%" {
		t.Fatalf("latest must be the edited version, got %+v", latest)
	}
}

func TestEditLeavesPinnedVersionsAlone(t *testing.T) {
	ctx := context.Background()
	svc, bullets := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "v1 text")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}
	second, err := svc.Edit(ctx, "user-1", created.LineageID, created.Version, nil, strptr("v2 text"))
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	// One placement pinned at v1, one at v2.
	if _, err := bullets.Add(ctx, relationships.Row{ParentID: "row-pinned", ChildID: created.LineageID, Version: created.Version}); err != nil {
		t.Fatalf("Add pinned: %v", err)
	}
	if _, err := bullets.Add(ctx, relationships.Row{ParentID: "row-live", ChildID: created.LineageID, Version: second.Version}); err != nil {
		t.Fatalf("Add live: %v", err)
	}

	third, err := svc.Edit(ctx, "user-1", created.LineageID, second.Version, nil, strptr("v3 text"))
	if err != nil {
		t.Fatalf("Edit v3: %v", err)
	}

	pinned, _ := bullets.GetAll(ctx, "row-pinned")
	if pinned[0].Version != created.Version {
		t.Fatalf("pinned placement must stay at %d, got %d", created.Version, pinned[0].Version)
	}
	live, _ := bullets.GetAll(ctx, "row-live")
	if live[0].Version != third.Version {
		t.Fatalf("live placement must follow to %d, got %d", third.Version, live[0].Version)
	}
}

func TestEditByNonOwnerIsForbidden(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "mine")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}

	_, err = svc.Edit(ctx, "user-2", created.LineageID, created.Version, nil, strptr("theirs"))
	if !errors.Is(err, ownership.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// The lineage is untouched.
	latest, err := svc.Get(ctx, "user-1", created.LineageID, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if latest.Content != "mine" || latest.Version != created.Version {
		t.Fatalf("lineage must be unchanged, got %+v", latest)
	}
}

func TestEditMissingVersionIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "text")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}

	_, err = svc.Edit(ctx, "user-1", created.LineageID, created.Version+999, nil, strptr("text"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEditKindOnlyCarriesContent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "keep me")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}

	edited, err := svc.Edit(ctx, "user-1", created.LineageID, created.Version, strptr("summary"), nil)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if edited.Kind != "summary" || edited.Content != "keep me" {
		t.Fatalf("expected kind change with content carried over, got %+v", edited)
	}
}

func TestVersionsStayMonotonic(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "v1")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}

	prev := created
	for i := 0; i < 5; i++ {
		next, err := svc.Edit(ctx, "user-1", prev.LineageID, prev.Version, nil, strptr("next"))
		if err != nil {
			t.Fatalf("Edit %d: %v", i, err)
		}
		if next.Version <= prev.Version {
			t.Fatalf("version %d not greater than %d", next.Version, prev.Version)
		}
		prev = next
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "v1")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}
	second, err := svc.Edit(ctx, "user-1", created.LineageID, created.Version, nil, strptr("v2"))
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	history, err := svc.History(ctx, "user-1", created.LineageID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(history))
	}
	if history[0].Version != second.Version || history[1].Version != created.Version {
		t.Fatalf("history must be newest first, got %+v", history)
	}
}

func TestDeleteLineageRemovesPlacements(t *testing.T) {
	ctx := context.Background()
	svc, bullets := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "text")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}
	if _, err := bullets.Add(ctx, relationships.Row{ParentID: "row-1", ChildID: created.LineageID, Version: created.Version}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", created.LineageID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ctx, "user-1", created.LineageID, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	rows, err := bullets.GetAll(ctx, "row-1")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("placements must be gone, got %+v", rows)
	}
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateLineage(ctx, "user-1", "bullet", "text")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}

	if err := svc.Delete(ctx, "user-2", created.LineageID); !errors.Is(err, ownership.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListReturnsLatestPerLineage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.CreateLineage(ctx, "user-1", "bullet", "a v1")
	if err != nil {
		t.Fatalf("CreateLineage: %v", err)
	}
	if _, err := svc.Edit(ctx, "user-1", first.LineageID, first.Version, nil, strptr("a v2")); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if _, err := svc.CreateLineage(ctx, "user-1", "bullet", "b v1"); err != nil {
		t.Fatalf("CreateLineage b: %v", err)
	}
	if _, err := svc.CreateLineage(ctx, "user-2", "bullet", "other"); err != nil {
		t.Fatalf("CreateLineage other: %v", err)
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 lineages, got %d", len(list))
	}
	for _, s := range list {
		if s.LineageID == first.LineageID && s.Content != "a v2" {
			t.Fatalf("list must carry the latest version, got %q", s.Content)
		}
	}
}
