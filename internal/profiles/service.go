package profiles

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"resume-composer/internal/shared/storage/object"
)

// Service manages the contact profile and its photo.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

var photoExtensions = map[string]bool{
	".gif":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	return s.Repo.Get(ctx, userID)
}

// Upsert writes the contact fields and reports whether this call created the
// profile row.
func (s *Service) Upsert(ctx context.Context, userID string, req UpsertProfileRequest) (Profile, bool, error) {
	if userID == "" {
		return Profile{}, false, ErrInvalidInput
	}
	return s.Repo.Upsert(ctx, req.Model(userID))
}

// UploadPhoto stores the image and points the profile at it, creating the
// profile row if none exists yet.
func (s *Service) UploadPhoto(ctx context.Context, userID, fileName string, r io.Reader) (Profile, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !photoExtensions[ext] {
		return Profile{}, fmt.Errorf("%w: photo must be a jpg, png, gif or webp image", ErrInvalidInput)
	}

	key, _, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Profile{}, err
	}
	if err := s.Repo.SetPhoto(ctx, userID, key, mimeType); err != nil {
		return Profile{}, err
	}
	return s.Repo.Get(ctx, userID)
}

// OpenPhoto streams the stored photo along with its content type.
func (s *Service) OpenPhoto(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	profile, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if profile.PhotoKey == "" {
		return nil, "", ErrNotFound
	}
	reader, err := s.Store.Open(ctx, profile.PhotoKey)
	if err != nil {
		return nil, "", err
	}
	mime := profile.PhotoMime
	if mime == "" {
		mime = "application/octet-stream"
	}
	return reader, mime, nil
}
