package resumes

import (
	"context"
	"time"

	"resume-composer/internal/shared/metrics"
)

// ComposedResume is the full document: the resume with every placement
// resolved to its entry, in order.
type ComposedResume struct {
	Resume      Resume
	Educations  []EducationPlacement
	Experiences []ExperiencePlacement
	Sections    []SectionPlacement
}

// Compose resolves an owned resume into its full content: ordered
// educations, experiences with their bullets, and sections. Bullets resolve
// to the exact snippet version their placement pins.
func (s *Service) Compose(ctx context.Context, userID, resumeID string) (ComposedResume, error) {
	start := time.Now()
	resume, err := s.loadOwned(ctx, userID, resumeID)
	if err != nil {
		return ComposedResume{}, err
	}
	out := ComposedResume{Resume: resume}

	eduRows, err := s.EducationRows.GetAll(ctx, resumeID)
	if err != nil {
		return ComposedResume{}, err
	}
	out.Educations = make([]EducationPlacement, 0, len(eduRows))
	for _, row := range eduRows {
		edu, err := s.Educations.Lookup(ctx, row.ChildID)
		if err != nil {
			return ComposedResume{}, err
		}
		out.Educations = append(out.Educations, EducationPlacement{Row: row, Education: edu})
	}

	expRows, err := s.ExperienceRows.GetAll(ctx, resumeID)
	if err != nil {
		return ComposedResume{}, err
	}
	out.Experiences = make([]ExperiencePlacement, 0, len(expRows))
	for _, row := range expRows {
		exp, err := s.Experiences.Lookup(ctx, row.ChildID)
		if err != nil {
			return ComposedResume{}, err
		}
		bullets, err := s.bulletsForScope(ctx, row.ID)
		if err != nil {
			return ComposedResume{}, err
		}
		out.Experiences = append(out.Experiences, ExperiencePlacement{Row: row, Experience: exp, Bullets: bullets})
	}

	secRows, err := s.SectionRows.GetAll(ctx, resumeID)
	if err != nil {
		return ComposedResume{}, err
	}
	out.Sections = make([]SectionPlacement, 0, len(secRows))
	for _, row := range secRows {
		sec, err := s.Sections.Lookup(ctx, row.ChildID)
		if err != nil {
			return ComposedResume{}, err
		}
		out.Sections = append(out.Sections, SectionPlacement{Row: row, Section: sec})
	}

	metrics.ObserveComposeDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	return out, nil
}
