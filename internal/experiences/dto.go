package experiences

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateExperienceRequest is the payload for adding a library entry.
type CreateExperienceRequest struct {
	Company   string `json:"company"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Summary   string `json:"summary"`
}

func (r CreateExperienceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Company, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
	)
}

// Model converts the request into an entry owned by userID.
func (r CreateExperienceRequest) Model(userID string) Experience {
	return Experience{
		UserID:    userID,
		Company:   r.Company,
		Title:     r.Title,
		Location:  r.Location,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Summary:   r.Summary,
	}
}

// UpdateExperienceRequest carries a partial update; only set fields change.
type UpdateExperienceRequest struct {
	Company   *string `json:"company"`
	Title     *string `json:"title"`
	Location  *string `json:"location"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Summary   *string `json:"summary"`
}

func (r UpdateExperienceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Company, validation.NilOrNotEmpty),
		validation.Field(&r.Title, validation.NilOrNotEmpty),
	)
}
