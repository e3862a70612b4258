package educations

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateEducationRequest is the payload for adding a library entry.
type CreateEducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartYear    int    `json:"startYear"`
	EndYear      int    `json:"endYear"`
	Description  string `json:"description"`
}

func (r CreateEducationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.School, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.StartYear, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.EndYear, validation.Min(1900), validation.Max(2100)),
	)
}

// Model converts the request into an entry owned by userID.
func (r CreateEducationRequest) Model(userID string) Education {
	return Education{
		UserID:       userID,
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		StartYear:    r.StartYear,
		EndYear:      r.EndYear,
		Description:  r.Description,
	}
}

// UpdateEducationRequest carries a partial update; only set fields change.
type UpdateEducationRequest struct {
	School       *string `json:"school"`
	Degree       *string `json:"degree"`
	FieldOfStudy *string `json:"fieldOfStudy"`
	StartYear    *int    `json:"startYear"`
	EndYear      *int    `json:"endYear"`
	Description  *string `json:"description"`
}

func (r UpdateEducationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.School, validation.NilOrNotEmpty),
		validation.Field(&r.StartYear, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.EndYear, validation.Min(1900), validation.Max(2100)),
	)
}
