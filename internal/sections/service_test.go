package sections

import (
	"context"
	"errors"
	"testing"

	"resume-composer/internal/ownership"
)

func strptr(s string) *string { return &s }

func TestCreateRequiresTitle(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	if _, err := svc.Create(context.Background(), Section{UserID: "user-1", Content: "text"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateContentOnly(t *testing.T) {
	ctx := context.Background()
	svc := &Service{Repo: NewMemoryRepo()}

	created, err := svc.Create(ctx, Section{UserID: "user-1", Title: "Skills", Content: "Go"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, "user-1", created.ID, UpdateSectionRequest{Content: strptr("Go, SQL")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Skills" || updated.Content != "Go, SQL" {
		t.Fatalf("expected content change with title carried over, got %+v", updated)
	}
}

func TestUpdateByNonOwnerIsForbidden(t *testing.T) {
	ctx := context.Background()
	svc := &Service{Repo: NewMemoryRepo()}

	created, err := svc.Create(ctx, Section{UserID: "user-1", Title: "Skills"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(ctx, "user-2", created.ID, UpdateSectionRequest{Title: strptr("Mine now")}); !errors.Is(err, ownership.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
