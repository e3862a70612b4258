package resumes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-composer/internal/ownership"
	"resume-composer/internal/relationships"
)

// DefaultMasterName names the resume seeded for a new user.
const DefaultMasterName = "Master Resume"

// Service contains business logic for resumes and their composition. Item
// sources resolve shared library entries; row stores hold the ordered
// placements binding entries to resumes.
type Service struct {
	Repo Repo

	Educations  EducationSource
	Experiences ExperienceSource
	Sections    SectionSource
	Snippets    SnippetSource

	EducationRows  relationships.Store
	ExperienceRows relationships.Store
	SectionRows    relationships.Store
	BulletRows     relationships.Store
}

// Create adds an empty resume.
func (s *Service) Create(ctx context.Context, userID, name string, isTemplate bool) (Resume, error) {
	if userID == "" || strings.TrimSpace(name) == "" {
		return Resume{}, ErrInvalidInput
	}
	now := time.Now().UTC()
	resume := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		IsTemplate: isTemplate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// EnsureMaster returns the user's master resume, seeding it on first use.
func (s *Service) EnsureMaster(ctx context.Context, userID string) (Resume, error) {
	if userID == "" {
		return Resume{}, ErrInvalidInput
	}
	master, err := s.Repo.GetMasterByUser(ctx, userID)
	if err == nil {
		return master, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Resume{}, err
	}

	now := time.Now().UTC()
	master = Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      DefaultMasterName,
		IsMaster:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, master); err != nil {
		// Lost the seeding race; the winner's row is the master.
		if existing, getErr := s.Repo.GetMasterByUser(ctx, userID); getErr == nil {
			return existing, nil
		}
		return Resume{}, err
	}
	return master, nil
}

// Get returns an owned resume.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	return s.loadOwned(ctx, userID, id)
}

// List returns the user's resumes, master first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Master returns the user's master resume without seeding one.
func (s *Service) Master(ctx context.Context, userID string) (Resume, error) {
	return s.Repo.GetMasterByUser(ctx, userID)
}

// Update applies the set fields of req. Lock state is metadata, so a locked
// resume can still be renamed or unlocked here.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateResumeRequest) (Resume, error) {
	resume, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return Resume{}, ErrInvalidInput
		}
		resume.Name = *req.Name
	}
	if req.IsTemplate != nil {
		resume.IsTemplate = *req.IsTemplate
	}
	if req.IsLocked != nil {
		resume.IsLocked = *req.IsLocked
	}
	resume.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Delete removes an owned resume and its placements. The master cannot be
// deleted, and a locked resume must be unlocked first.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	resume, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if resume.IsMaster {
		return ErrMasterImmutable
	}
	if resume.IsLocked {
		return ErrLocked
	}

	// The memory stores have no cascading deletes, so placements are
	// cleared explicitly before the resume row goes.
	rows, err := s.ExperienceRows.GetAll(ctx, id)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.BulletRows.DeleteAllForParent(ctx, row.ID); err != nil {
			return err
		}
	}
	for _, store := range []relationships.Store{s.EducationRows, s.ExperienceRows, s.SectionRows} {
		if err := store.DeleteAllForParent(ctx, id); err != nil {
			return err
		}
	}
	return s.Repo.Delete(ctx, id)
}

// Duplicate copies an owned resume into a new unlocked, non-master resume.
// Placements, their order, and pinned bullet versions carry over; the copy
// references the same library entries rather than cloning them.
func (s *Service) Duplicate(ctx context.Context, userID, id, name string) (Resume, error) {
	src, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = src.Name + " (copy)"
	}

	now := time.Now().UTC()
	dst := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		IsTemplate: src.IsTemplate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if pg, ok := s.Repo.(*PGRepo); ok {
		if err := pg.Duplicate(ctx, src, dst); err != nil {
			return Resume{}, err
		}
		return dst, nil
	}

	if err := s.Repo.Create(ctx, dst); err != nil {
		return Resume{}, err
	}
	for _, store := range []relationships.Store{s.EducationRows, s.SectionRows} {
		if err := s.copyRows(ctx, store, src.ID, dst.ID, nil); err != nil {
			return Resume{}, err
		}
	}
	// Experience placements also carry their bullets across.
	if err := s.copyRows(ctx, s.ExperienceRows, src.ID, dst.ID, s.copyBullets); err != nil {
		return Resume{}, err
	}
	return dst, nil
}

func (s *Service) copyRows(ctx context.Context, store relationships.Store, srcID, dstID string, each func(ctx context.Context, srcRow, dstRow relationships.Row) error) error {
	rows, err := store.GetAll(ctx, srcID)
	if err != nil {
		return err
	}
	for _, row := range rows {
		copied, err := store.Add(ctx, relationships.Row{
			ParentID: dstID,
			ChildID:  row.ChildID,
			Version:  row.Version,
			Position: row.Position,
		})
		if err != nil {
			return err
		}
		if each != nil {
			if err := each(ctx, row, copied); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) copyBullets(ctx context.Context, srcRow, dstRow relationships.Row) error {
	bullets, err := s.BulletRows.GetAll(ctx, srcRow.ID)
	if err != nil {
		return err
	}
	for _, b := range bullets {
		if _, err := s.BulletRows.Add(ctx, relationships.Row{
			ParentID: dstRow.ID,
			ChildID:  b.ChildID,
			Version:  b.Version,
			Position: b.Position,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) loadOwned(ctx context.Context, userID, id string) (Resume, error) {
	return ownership.Verify(ctx, userID, func(ctx context.Context) (Resume, error) {
		return s.Repo.GetByID(ctx, id)
	})
}

// mutable loads an owned resume and rejects structural changes while it is
// locked.
func (s *Service) mutable(ctx context.Context, userID, id string) (Resume, error) {
	resume, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}
	if resume.IsLocked {
		return Resume{}, ErrLocked
	}
	return resume, nil
}
