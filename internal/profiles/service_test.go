package profiles

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	localstore "resume-composer/internal/shared/storage/object/local"
)

// Starts with the PNG magic so content sniffing sees an image.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x42}, 64)...)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{Repo: NewMemoryRepo(), Store: localstore.New(t.TempDir())}
}

func TestUpsertReportsCreation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, created, err := svc.Upsert(ctx, "user-1", UpsertProfileRequest{Headline: "Backend engineer"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Fatal("first upsert must create the profile")
	}
	if first.Headline != "Backend engineer" {
		t.Fatalf("unexpected profile: %+v", first)
	}

	second, created, err := svc.Upsert(ctx, "user-1", UpsertProfileRequest{Headline: "Staff engineer", Location: "Berlin"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created {
		t.Fatal("second upsert must update, not create")
	}
	if second.Headline != "Staff engineer" || second.Location != "Berlin" {
		t.Fatalf("unexpected profile after update: %+v", second)
	}
}

func TestGetMissingProfileIsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "user-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadPhotoRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	profile, err := svc.UploadPhoto(ctx, "user-1", "me.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if profile.PhotoKey == "" {
		t.Fatal("expected a stored photo key")
	}

	reader, mimeType, err := svc.OpenPhoto(ctx, "user-1")
	if err != nil {
		t.Fatalf("OpenPhoto: %v", err)
	}
	defer reader.Close()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read photo: %v", err)
	}
	if !bytes.Equal(got, pngBytes) {
		t.Fatalf("photo bytes changed in storage, got %d bytes", len(got))
	}
	if mimeType != "image/png" {
		t.Fatalf("expected image/png, got %q", mimeType)
	}
}

func TestUploadPhotoRejectsNonImage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UploadPhoto(context.Background(), "user-1", "resume.pdf", bytes.NewReader([]byte("%PDF-1.4")))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpsertKeepsStoredPhoto(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.UploadPhoto(ctx, "user-1", "me.png", bytes.NewReader(pngBytes)); err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}

	profile, _, err := svc.Upsert(ctx, "user-1", UpsertProfileRequest{Headline: "Backend engineer"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if profile.PhotoKey == "" {
		t.Fatal("contact upsert must not drop the photo")
	}
}

func TestOpenPhotoWithoutUpload(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, _, err := svc.Upsert(ctx, "user-1", UpsertProfileRequest{Headline: "x"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, _, err := svc.OpenPhoto(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
