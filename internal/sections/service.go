package sections

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-composer/internal/ownership"
)

// Service contains business logic for sections.
type Service struct {
	Repo Repo

	// CleanupPlacements detaches a deleted section from every resume when
	// the backing store has no cascading deletes. Optional.
	CleanupPlacements func(ctx context.Context, sectionID string) error
}

func (s *Service) Create(ctx context.Context, sec Section) (Section, error) {
	if sec.UserID == "" || strings.TrimSpace(sec.Title) == "" {
		return Section{}, ErrInvalidInput
	}
	now := time.Now().UTC()
	sec.ID = uuid.NewString()
	sec.CreatedAt = now
	sec.UpdatedAt = now
	if err := s.Repo.Create(ctx, sec); err != nil {
		return Section{}, err
	}
	return sec, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Section, error) {
	return s.owned(ctx, userID, id)
}

// Lookup returns a section by ID regardless of owner. Composition applies
// its own guard.
func (s *Service) Lookup(ctx context.Context, id string) (Section, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, userID string) ([]Section, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id string, req UpdateSectionRequest) (Section, error) {
	sec, err := s.owned(ctx, userID, id)
	if err != nil {
		return Section{}, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return Section{}, ErrInvalidInput
		}
		sec.Title = *req.Title
	}
	if req.Content != nil {
		sec.Content = *req.Content
	}
	sec.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, sec); err != nil {
		return Section{}, err
	}
	return sec, nil
}

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

func (s *Service) owned(ctx context.Context, userID, id string) (Section, error) {
	return ownership.Verify(ctx, userID, func(ctx context.Context) (Section, error) {
		return s.Repo.GetByID(ctx, id)
	})
}
