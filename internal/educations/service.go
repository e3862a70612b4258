package educations

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-composer/internal/ownership"
)

// Service contains business logic for the education library.
type Service struct {
	Repo Repo

	// CleanupPlacements detaches a deleted entry from every resume when the
	// backing store has no cascading deletes. Optional.
	CleanupPlacements func(ctx context.Context, educationID string) error
}

// Create adds a library entry owned by edu.UserID.
func (s *Service) Create(ctx context.Context, edu Education) (Education, error) {
	if edu.UserID == "" || strings.TrimSpace(edu.School) == "" {
		return Education{}, ErrInvalidInput
	}
	now := time.Now().UTC()
	edu.ID = uuid.NewString()
	edu.CreatedAt = now
	edu.UpdatedAt = now
	if err := s.Repo.Create(ctx, edu); err != nil {
		return Education{}, err
	}
	return edu, nil
}

// Get returns an entry the user owns.
func (s *Service) Get(ctx context.Context, userID, id string) (Education, error) {
	return s.owned(ctx, userID, id)
}

// Lookup returns an entry by ID regardless of owner. Composition applies
// its own guard.
func (s *Service) Lookup(ctx context.Context, id string) (Education, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns the user's education library, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Education, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Update applies the set fields of req to an owned entry. Because entries
// are shared, the change shows up on every resume that includes the entry.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateEducationRequest) (Education, error) {
	edu, err := s.owned(ctx, userID, id)
	if err != nil {
		return Education{}, err
	}

	if req.School != nil {
		if strings.TrimSpace(*req.School) == "" {
			return Education{}, ErrInvalidInput
		}
		edu.School = *req.School
	}
	if req.Degree != nil {
		edu.Degree = *req.Degree
	}
	if req.FieldOfStudy != nil {
		edu.FieldOfStudy = *req.FieldOfStudy
	}
	if req.StartYear != nil {
		edu.StartYear = *req.StartYear
	}
	if req.EndYear != nil {
		edu.EndYear = *req.EndYear
	}
	if req.Description != nil {
		edu.Description = *req.Description
	}
	edu.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, edu); err != nil {
		return Education{}, err
	}
	return edu, nil
}

// Delete removes an owned entry from the library and from every resume that
// includes it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.CleanupPlacements != nil {
		return s.CleanupPlacements(ctx, id)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, userID, id string) (Education, error) {
	return ownership.Verify(ctx, userID, func(ctx context.Context) (Education, error) {
		return s.Repo.GetByID(ctx, id)
	})
}
