package resumes

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"resume-composer/internal/educations"
	"resume-composer/internal/experiences"
	"resume-composer/internal/sections"
)

// CreateResumeRequest is the payload for creating an empty resume.
type CreateResumeRequest struct {
	Name       string `json:"name"`
	IsTemplate bool   `json:"isTemplate"`
}

func (r CreateResumeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// UpdateResumeRequest carries a partial update; only set fields change.
type UpdateResumeRequest struct {
	Name       *string `json:"name"`
	IsTemplate *bool   `json:"isTemplate"`
	IsLocked   *bool   `json:"isLocked"`
}

func (r UpdateResumeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty),
	)
}

// DuplicateResumeRequest names the copy; an empty name derives one from
// the source.
type DuplicateResumeRequest struct {
	Name string `json:"name"`
}

// AttachEducationRequest attaches an existing entry by ID, or creates a
// new one inline through the master resume. Exactly one form is allowed.
type AttachEducationRequest struct {
	EducationID string                             `json:"educationId"`
	Education   *educations.CreateEducationRequest `json:"education"`
}

func (r AttachEducationRequest) Validate() error {
	if (r.EducationID == "") == (r.Education == nil) {
		return validation.NewError("validation_attach", "provide exactly one of educationId or education")
	}
	if r.Education != nil {
		return r.Education.Validate()
	}
	return nil
}

// AttachExperienceRequest attaches an existing entry by ID, or creates a
// new one inline through the master resume.
type AttachExperienceRequest struct {
	ExperienceID string                               `json:"experienceId"`
	Experience   *experiences.CreateExperienceRequest `json:"experience"`
}

func (r AttachExperienceRequest) Validate() error {
	if (r.ExperienceID == "") == (r.Experience == nil) {
		return validation.NewError("validation_attach", "provide exactly one of experienceId or experience")
	}
	if r.Experience != nil {
		return r.Experience.Validate()
	}
	return nil
}

// AttachSectionRequest attaches an existing section by ID, or creates a
// new one inline through the master resume.
type AttachSectionRequest struct {
	SectionID string                         `json:"sectionId"`
	Section   *sections.CreateSectionRequest `json:"section"`
}

func (r AttachSectionRequest) Validate() error {
	if (r.SectionID == "") == (r.Section == nil) {
		return validation.NewError("validation_attach", "provide exactly one of sectionId or section")
	}
	if r.Section != nil {
		return r.Section.Validate()
	}
	return nil
}

// AttachBulletRequest pins an existing snippet lineage under an experience
// placement, or starts a new lineage inline through the master resume.
// Version 0 pins the lineage's latest version.
type AttachBulletRequest struct {
	LineageID string `json:"lineageId"`
	Version   int64  `json:"version"`
	Content   string `json:"content"`
}

func (r AttachBulletRequest) Validate() error {
	if (r.LineageID == "") == (strings.TrimSpace(r.Content) == "") {
		return validation.NewError("validation_attach", "provide exactly one of lineageId or content")
	}
	return nil
}

// ReorderRequest lists every child of the collection in its new order.
type ReorderRequest struct {
	Order []string `json:"order"`
}

func (r ReorderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Order, validation.Required),
	)
}

// PlacementResponse is the wire shape shared by all placement rows.
type PlacementResponse struct {
	ID        string    `json:"id"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

type EducationPlacementResponse struct {
	PlacementResponse
	Education educations.Education `json:"education"`
}

type ExperiencePlacementResponse struct {
	PlacementResponse
	Experience experiences.Experience `json:"experience"`
	Bullets    []BulletResponse       `json:"bullets,omitempty"`
}

type SectionPlacementResponse struct {
	PlacementResponse
	Section sections.Section `json:"section"`
}

type BulletResponse struct {
	PlacementResponse
	LineageID string `json:"lineageId"`
	Version   int64  `json:"version"`
	Kind      string `json:"kind"`
	Content   string `json:"content"`
}

// ComposedResumeResponse is the full document returned by the content
// endpoint.
type ComposedResumeResponse struct {
	Resume      Resume                        `json:"resume"`
	Educations  []EducationPlacementResponse  `json:"educations"`
	Experiences []ExperiencePlacementResponse `json:"experiences"`
	Sections    []SectionPlacementResponse    `json:"sections"`
}

func toEducationPlacement(p EducationPlacement) EducationPlacementResponse {
	return EducationPlacementResponse{
		PlacementResponse: PlacementResponse{ID: p.Row.ID, Position: p.Row.Position, CreatedAt: p.Row.CreatedAt},
		Education:         p.Education,
	}
}

func toExperiencePlacement(p ExperiencePlacement) ExperiencePlacementResponse {
	out := ExperiencePlacementResponse{
		PlacementResponse: PlacementResponse{ID: p.Row.ID, Position: p.Row.Position, CreatedAt: p.Row.CreatedAt},
		Experience:        p.Experience,
	}
	for _, b := range p.Bullets {
		out.Bullets = append(out.Bullets, toBullet(b))
	}
	return out
}

func toSectionPlacement(p SectionPlacement) SectionPlacementResponse {
	return SectionPlacementResponse{
		PlacementResponse: PlacementResponse{ID: p.Row.ID, Position: p.Row.Position, CreatedAt: p.Row.CreatedAt},
		Section:           p.Section,
	}
}

func toBullet(p BulletPlacement) BulletResponse {
	return BulletResponse{
		PlacementResponse: PlacementResponse{ID: p.Row.ID, Position: p.Row.Position, CreatedAt: p.Row.CreatedAt},
		LineageID:         p.Snippet.LineageID,
		Version:           p.Snippet.Version,
		Kind:              p.Snippet.Kind,
		Content:           p.Snippet.Content,
	}
}

func toComposed(c ComposedResume) ComposedResumeResponse {
	out := ComposedResumeResponse{
		Resume:      c.Resume,
		Educations:  make([]EducationPlacementResponse, 0, len(c.Educations)),
		Experiences: make([]ExperiencePlacementResponse, 0, len(c.Experiences)),
		Sections:    make([]SectionPlacementResponse, 0, len(c.Sections)),
	}
	for _, p := range c.Educations {
		out.Educations = append(out.Educations, toEducationPlacement(p))
	}
	for _, p := range c.Experiences {
		out.Experiences = append(out.Experiences, toExperiencePlacement(p))
	}
	for _, p := range c.Sections {
		out.Sections = append(out.Sections, toSectionPlacement(p))
	}
	return out
}
