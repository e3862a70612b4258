package experiences

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-composer/internal/ownership"
)

// Service contains business logic for the work-history library.
type Service struct {
	Repo Repo

	// CleanupPlacements detaches a deleted entry from every resume when the
	// backing store has no cascading deletes. Optional.
	CleanupPlacements func(ctx context.Context, experienceID string) error
}

// Create adds a library entry owned by exp.UserID.
func (s *Service) Create(ctx context.Context, exp Experience) (Experience, error) {
	if exp.UserID == "" || strings.TrimSpace(exp.Company) == "" || strings.TrimSpace(exp.Title) == "" {
		return Experience{}, ErrInvalidInput
	}
	now := time.Now().UTC()
	exp.ID = uuid.NewString()
	exp.CreatedAt = now
	exp.UpdatedAt = now
	if err := s.Repo.Create(ctx, exp); err != nil {
		return Experience{}, err
	}
	return exp, nil
}

// Get returns an entry the user owns.
func (s *Service) Get(ctx context.Context, userID, id string) (Experience, error) {
	return s.owned(ctx, userID, id)
}

// Lookup returns an entry by ID regardless of owner. Composition applies
// its own guard.
func (s *Service) Lookup(ctx context.Context, id string) (Experience, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns the user's work history, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Experience, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Update applies the set fields of req to an owned entry.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateExperienceRequest) (Experience, error) {
	exp, err := s.owned(ctx, userID, id)
	if err != nil {
		return Experience{}, err
	}

	if req.Company != nil {
		if strings.TrimSpace(*req.Company) == "" {
			return Experience{}, ErrInvalidInput
		}
		exp.Company = *req.Company
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return Experience{}, ErrInvalidInput
		}
		exp.Title = *req.Title
	}
	if req.Location != nil {
		exp.Location = *req.Location
	}
	if req.StartDate != nil {
		exp.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		exp.EndDate = *req.EndDate
	}
	if req.Summary != nil {
		exp.Summary = *req.Summary
	}
	exp.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, exp); err != nil {
		return Experience{}, err
	}
	return exp, nil
}

// Delete removes an owned entry, detaching it from every resume. Bullets
// hanging off those placements disappear with them.
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

func (s *Service) owned(ctx context.Context, userID, id string) (Experience, error) {
	return ownership.Verify(ctx, userID, func(ctx context.Context) (Experience, error) {
		return s.Repo.GetByID(ctx, id)
	})
}
