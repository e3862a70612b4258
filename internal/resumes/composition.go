package resumes

import (
	"context"
	"errors"

	"resume-composer/internal/educations"
	"resume-composer/internal/experiences"
	"resume-composer/internal/ownership"
	"resume-composer/internal/relationships"
	"resume-composer/internal/sections"
	"resume-composer/internal/shared/metrics"
	"resume-composer/internal/snippets"
)

// EducationSource is the slice of the education library composition needs.
type EducationSource interface {
	Lookup(ctx context.Context, id string) (educations.Education, error)
	Create(ctx context.Context, edu educations.Education) (educations.Education, error)
	Delete(ctx context.Context, userID, id string) error
}

// ExperienceSource is the slice of the work-history library composition needs.
type ExperienceSource interface {
	Lookup(ctx context.Context, id string) (experiences.Experience, error)
	Create(ctx context.Context, exp experiences.Experience) (experiences.Experience, error)
	Delete(ctx context.Context, userID, id string) error
}

// SectionSource is the slice of the section library composition needs.
type SectionSource interface {
	Lookup(ctx context.Context, id string) (sections.Section, error)
	Create(ctx context.Context, sec sections.Section) (sections.Section, error)
	Delete(ctx context.Context, userID, id string) error
}

// SnippetSource is the slice of the snippet library composition needs.
type SnippetSource interface {
	Latest(ctx context.Context, lineageID string) (snippets.Snippet, error)
	Version(ctx context.Context, lineageID string, version int64) (snippets.Snippet, error)
	CreateLineage(ctx context.Context, userID, kind, content string) (snippets.Snippet, error)
	Delete(ctx context.Context, userID, lineageID string) error
}

// EducationPlacement pairs a placement row with the entry it references.
type EducationPlacement struct {
	Row       relationships.Row
	Education educations.Education
}

// ExperiencePlacement pairs a placement row with the entry it references.
// Bullets are filled by Compose; the placement endpoints omit them.
type ExperiencePlacement struct {
	Row        relationships.Row
	Experience experiences.Experience
	Bullets    []BulletPlacement
}

// SectionPlacement pairs a placement row with the section it references.
type SectionPlacement struct {
	Row     relationships.Row
	Section sections.Section
}

// BulletPlacement pairs a bullet row with the snippet version it pins.
type BulletPlacement struct {
	Row     relationships.Row
	Snippet snippets.Snippet
}

// AttachEducation places an existing owned entry at the end of the resume.
func (s *Service) AttachEducation(ctx context.Context, userID, resumeID, educationID string) (EducationPlacement, error) {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return EducationPlacement{}, err
	}
	edu, err := s.ownedEducation(ctx, userID, educationID)
	if err != nil {
		return EducationPlacement{}, err
	}
	row, err := s.EducationRows.Append(ctx, relationships.Row{ParentID: resumeID, ChildID: educationID})
	if err != nil {
		return EducationPlacement{}, err
	}
	metrics.IncPlacementAttached()
	return EducationPlacement{Row: row, Education: edu}, nil
}

// CreateEducation adds a new library entry through the master resume and
// attaches it at the end. If the attach fails the entry is discarded.
func (s *Service) CreateEducation(ctx context.Context, userID, resumeID string, edu educations.Education) (EducationPlacement, error) {
	var created educations.Education
	row, err := s.createAndAttach(ctx, userID, resumeID, s.EducationRows,
		func(ctx context.Context) (string, error) {
			var err error
			created, err = s.Educations.Create(ctx, edu)
			if err != nil {
				if errors.Is(err, educations.ErrInvalidInput) {
					return "", ErrInvalidInput
				}
				return "", err
			}
			return created.ID, nil
		},
		func(ctx context.Context, id string) {
			_ = s.Educations.Delete(ctx, userID, id)
		},
	)
	if err != nil {
		return EducationPlacement{}, err
	}
	return EducationPlacement{Row: row, Education: created}, nil
}

// EducationPlacements returns the resume's education placements in order.
func (s *Service) EducationPlacements(ctx context.Context, userID, resumeID string) ([]EducationPlacement, error) {
	if _, err := s.loadOwned(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	rows, err := s.EducationRows.GetAll(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	out := make([]EducationPlacement, 0, len(rows))
	for _, row := range rows {
		edu, err := s.Educations.Lookup(ctx, row.ChildID)
		if err != nil {
			return nil, err
		}
		out = append(out, EducationPlacement{Row: row, Education: edu})
	}
	return out, nil
}

// ReorderEducations applies a full ordering of the resume's educations.
func (s *Service) ReorderEducations(ctx context.Context, userID, resumeID string, educationIDs []string) error {
	return s.reorder(ctx, userID, resumeID, s.EducationRows, educationIDs)
}

// DetachEducation removes an entry from the resume. The entry stays in the
// library; detaching an absent entry is a no-op.
func (s *Service) DetachEducation(ctx context.Context, userID, resumeID, educationID string) error {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return err
	}
	if err := s.EducationRows.Delete(ctx, resumeID, educationID); err != nil {
		return err
	}
	metrics.IncPlacementDetached()
	return nil
}

// AttachExperience places an existing owned entry at the end of the resume.
func (s *Service) AttachExperience(ctx context.Context, userID, resumeID, experienceID string) (ExperiencePlacement, error) {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return ExperiencePlacement{}, err
	}
	exp, err := s.ownedExperience(ctx, userID, experienceID)
	if err != nil {
		return ExperiencePlacement{}, err
	}
	row, err := s.ExperienceRows.Append(ctx, relationships.Row{ParentID: resumeID, ChildID: experienceID})
	if err != nil {
		return ExperiencePlacement{}, err
	}
	metrics.IncPlacementAttached()
	return ExperiencePlacement{Row: row, Experience: exp}, nil
}

// CreateExperience adds a new library entry through the master resume and
// attaches it at the end.
func (s *Service) CreateExperience(ctx context.Context, userID, resumeID string, exp experiences.Experience) (ExperiencePlacement, error) {
	var created experiences.Experience
	row, err := s.createAndAttach(ctx, userID, resumeID, s.ExperienceRows,
		func(ctx context.Context) (string, error) {
			var err error
			created, err = s.Experiences.Create(ctx, exp)
			if err != nil {
				if errors.Is(err, experiences.ErrInvalidInput) {
					return "", ErrInvalidInput
				}
				return "", err
			}
			return created.ID, nil
		},
		func(ctx context.Context, id string) {
			_ = s.Experiences.Delete(ctx, userID, id)
		},
	)
	if err != nil {
		return ExperiencePlacement{}, err
	}
	return ExperiencePlacement{Row: row, Experience: created}, nil
}

// ExperiencePlacements returns the resume's experience placements in order.
func (s *Service) ExperiencePlacements(ctx context.Context, userID, resumeID string) ([]ExperiencePlacement, error) {
	if _, err := s.loadOwned(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	rows, err := s.ExperienceRows.GetAll(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	out := make([]ExperiencePlacement, 0, len(rows))
	for _, row := range rows {
		exp, err := s.Experiences.Lookup(ctx, row.ChildID)
		if err != nil {
			return nil, err
		}
		out = append(out, ExperiencePlacement{Row: row, Experience: exp})
	}
	return out, nil
}

// ReorderExperiences applies a full ordering of the resume's experiences.
func (s *Service) ReorderExperiences(ctx context.Context, userID, resumeID string, experienceIDs []string) error {
	return s.reorder(ctx, userID, resumeID, s.ExperienceRows, experienceIDs)
}

// DetachExperience removes an entry from the resume along with the bullets
// under its placement.
func (s *Service) DetachExperience(ctx context.Context, userID, resumeID, experienceID string) error {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return err
	}
	row, err := s.ExperienceRows.Get(ctx, resumeID, experienceID)
	if err != nil {
		if errors.Is(err, relationships.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.BulletRows.DeleteAllForParent(ctx, row.ID); err != nil {
		return err
	}
	if err := s.ExperienceRows.Delete(ctx, resumeID, experienceID); err != nil {
		return err
	}
	metrics.IncPlacementDetached()
	return nil
}

// AttachSection places an existing owned section at the end of the resume.
func (s *Service) AttachSection(ctx context.Context, userID, resumeID, sectionID string) (SectionPlacement, error) {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return SectionPlacement{}, err
	}
	sec, err := s.ownedSection(ctx, userID, sectionID)
	if err != nil {
		return SectionPlacement{}, err
	}
	row, err := s.SectionRows.Append(ctx, relationships.Row{ParentID: resumeID, ChildID: sectionID})
	if err != nil {
		return SectionPlacement{}, err
	}
	metrics.IncPlacementAttached()
	return SectionPlacement{Row: row, Section: sec}, nil
}

// CreateSection adds a new section through the master resume and attaches
// it at the end.
func (s *Service) CreateSection(ctx context.Context, userID, resumeID string, sec sections.Section) (SectionPlacement, error) {
	var created sections.Section
	row, err := s.createAndAttach(ctx, userID, resumeID, s.SectionRows,
		func(ctx context.Context) (string, error) {
			var err error
			created, err = s.Sections.Create(ctx, sec)
			if err != nil {
				if errors.Is(err, sections.ErrInvalidInput) {
					return "", ErrInvalidInput
				}
				return "", err
			}
			return created.ID, nil
		},
		func(ctx context.Context, id string) {
			_ = s.Sections.Delete(ctx, userID, id)
		},
	)
	if err != nil {
		return SectionPlacement{}, err
	}
	return SectionPlacement{Row: row, Section: created}, nil
}

// SectionPlacements returns the resume's section placements in order.
func (s *Service) SectionPlacements(ctx context.Context, userID, resumeID string) ([]SectionPlacement, error) {
	if _, err := s.loadOwned(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	rows, err := s.SectionRows.GetAll(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	out := make([]SectionPlacement, 0, len(rows))
	for _, row := range rows {
		sec, err := s.Sections.Lookup(ctx, row.ChildID)
		if err != nil {
			return nil, err
		}
		out = append(out, SectionPlacement{Row: row, Section: sec})
	}
	return out, nil
}

// ReorderSections applies a full ordering of the resume's sections.
func (s *Service) ReorderSections(ctx context.Context, userID, resumeID string, sectionIDs []string) error {
	return s.reorder(ctx, userID, resumeID, s.SectionRows, sectionIDs)
}

// DetachSection removes a section from the resume; the section stays in
// the library.
func (s *Service) DetachSection(ctx context.Context, userID, resumeID, sectionID string) error {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return err
	}
	if err := s.SectionRows.Delete(ctx, resumeID, sectionID); err != nil {
		return err
	}
	metrics.IncPlacementDetached()
	return nil
}

// AttachBullet pins a snippet version under the placement of an experience
// on the resume. Version <= 0 pins the lineage's latest version.
func (s *Service) AttachBullet(ctx context.Context, userID, resumeID, experienceID, lineageID string, version int64) (BulletPlacement, error) {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return BulletPlacement{}, err
	}
	scope, err := s.bulletScope(ctx, resumeID, experienceID)
	if err != nil {
		return BulletPlacement{}, err
	}

	var snip snippets.Snippet
	if version <= 0 {
		snip, err = s.Snippets.Latest(ctx, lineageID)
	} else {
		snip, err = s.Snippets.Version(ctx, lineageID, version)
	}
	if err != nil {
		if errors.Is(err, snippets.ErrNotFound) {
			return BulletPlacement{}, ErrItemNotFound
		}
		return BulletPlacement{}, err
	}
	if snip.UserID != userID {
		return BulletPlacement{}, ownership.ErrForbidden
	}

	row, err := s.BulletRows.Append(ctx, relationships.Row{
		ParentID: scope,
		ChildID:  lineageID,
		Version:  snip.Version,
	})
	if err != nil {
		return BulletPlacement{}, err
	}
	metrics.IncPlacementAttached()
	return BulletPlacement{Row: row, Snippet: snip}, nil
}

// CreateBullet starts a new snippet lineage through the master resume and
// pins its initial version under the experience placement.
func (s *Service) CreateBullet(ctx context.Context, userID, resumeID, experienceID, content string) (BulletPlacement, error) {
	resume, err := s.mutable(ctx, userID, resumeID)
	if err != nil {
		return BulletPlacement{}, err
	}
	if !resume.IsMaster {
		return BulletPlacement{}, ErrMasterOnly
	}
	scope, err := s.bulletScope(ctx, resumeID, experienceID)
	if err != nil {
		return BulletPlacement{}, err
	}

	snip, err := s.Snippets.CreateLineage(ctx, userID, "", content)
	if err != nil {
		if errors.Is(err, snippets.ErrInvalidInput) {
			return BulletPlacement{}, ErrInvalidInput
		}
		return BulletPlacement{}, err
	}

	row, err := s.BulletRows.Append(ctx, relationships.Row{
		ParentID: scope,
		ChildID:  snip.LineageID,
		Version:  snip.Version,
	})
	if err != nil {
		_ = s.Snippets.Delete(ctx, userID, snip.LineageID)
		return BulletPlacement{}, err
	}
	metrics.IncPlacementAttached()
	return BulletPlacement{Row: row, Snippet: snip}, nil
}

// BulletPlacements returns the bullets under an experience placement in
// order, each resolved to its pinned snippet version.
func (s *Service) BulletPlacements(ctx context.Context, userID, resumeID, experienceID string) ([]BulletPlacement, error) {
	if _, err := s.loadOwned(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	scope, err := s.bulletScope(ctx, resumeID, experienceID)
	if err != nil {
		return nil, err
	}
	return s.bulletsForScope(ctx, scope)
}

// ReorderBullets applies a full ordering of the bullets under an experience
// placement.
func (s *Service) ReorderBullets(ctx context.Context, userID, resumeID, experienceID string, lineageIDs []string) error {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return err
	}
	scope, err := s.bulletScope(ctx, resumeID, experienceID)
	if err != nil {
		return err
	}
	return s.reorderRows(ctx, s.BulletRows, scope, lineageIDs)
}

// DetachBullet removes a bullet from an experience placement. The lineage
// and its versions stay in the snippet library.
func (s *Service) DetachBullet(ctx context.Context, userID, resumeID, experienceID, lineageID string) error {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return err
	}
	scope, err := s.bulletScope(ctx, resumeID, experienceID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil
		}
		return err
	}
	if err := s.BulletRows.Delete(ctx, scope, lineageID); err != nil {
		return err
	}
	metrics.IncPlacementDetached()
	return nil
}

// createAndAttach runs create-and-attach against the master resume. When
// the attach fails, discard drops the entry that was just created so the
// library does not accumulate strays.
func (s *Service) createAndAttach(ctx context.Context, userID, resumeID string, rows relationships.Store, create func(context.Context) (string, error), discard func(context.Context, string)) (relationships.Row, error) {
	resume, err := s.mutable(ctx, userID, resumeID)
	if err != nil {
		return relationships.Row{}, err
	}
	if !resume.IsMaster {
		return relationships.Row{}, ErrMasterOnly
	}

	childID, err := create(ctx)
	if err != nil {
		return relationships.Row{}, err
	}
	row, err := rows.Append(ctx, relationships.Row{ParentID: resumeID, ChildID: childID})
	if err != nil {
		discard(ctx, childID)
		return relationships.Row{}, err
	}
	metrics.IncPlacementAttached()
	return row, nil
}

// reorder applies a full ordering of a resume's placements for one kind.
func (s *Service) reorder(ctx context.Context, userID, resumeID string, rows relationships.Store, childIDs []string) error {
	if _, err := s.mutable(ctx, userID, resumeID); err != nil {
		return err
	}
	return s.reorderRows(ctx, rows, resumeID, childIDs)
}

func (s *Service) reorderRows(ctx context.Context, rows relationships.Store, parentID string, childIDs []string) error {
	current, err := rows.GetAll(ctx, parentID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(current))
	for _, row := range current {
		ids = append(ids, row.ChildID)
	}
	mapping, err := relationships.ReorderPositions(ids, childIDs)
	if err != nil {
		return err
	}
	if err := rows.UpdateAllPositions(ctx, parentID, mapping); err != nil {
		return err
	}
	metrics.IncResumeReordered()
	return nil
}

// bulletScope resolves the placement row binding an experience to the
// resume; bullets hang off that row.
func (s *Service) bulletScope(ctx context.Context, resumeID, experienceID string) (string, error) {
	row, err := s.ExperienceRows.Get(ctx, resumeID, experienceID)
	if err != nil {
		if errors.Is(err, relationships.ErrNotFound) {
			return "", ErrItemNotFound
		}
		return "", err
	}
	return row.ID, nil
}

func (s *Service) bulletsForScope(ctx context.Context, scope string) ([]BulletPlacement, error) {
	rows, err := s.BulletRows.GetAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := make([]BulletPlacement, 0, len(rows))
	for _, row := range rows {
		snip, err := s.Snippets.Version(ctx, row.ChildID, row.Version)
		if err != nil {
			return nil, err
		}
		out = append(out, BulletPlacement{Row: row, Snippet: snip})
	}
	return out, nil
}

func (s *Service) ownedEducation(ctx context.Context, userID, id string) (educations.Education, error) {
	edu, err := s.Educations.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, educations.ErrNotFound) {
			return educations.Education{}, ErrItemNotFound
		}
		return educations.Education{}, err
	}
	if edu.UserID != userID {
		return educations.Education{}, ownership.ErrForbidden
	}
	return edu, nil
}

func (s *Service) ownedExperience(ctx context.Context, userID, id string) (experiences.Experience, error) {
	exp, err := s.Experiences.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, experiences.ErrNotFound) {
			return experiences.Experience{}, ErrItemNotFound
		}
		return experiences.Experience{}, err
	}
	if exp.UserID != userID {
		return experiences.Experience{}, ownership.ErrForbidden
	}
	return exp, nil
}

func (s *Service) ownedSection(ctx context.Context, userID, id string) (sections.Section, error) {
	sec, err := s.Sections.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, sections.ErrNotFound) {
			return sections.Section{}, ErrItemNotFound
		}
		return sections.Section{}, err
	}
	if sec.UserID != userID {
		return sections.Section{}, ownership.ErrForbidden
	}
	return sec, nil
}
