package sections

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateSectionRequest is the payload for adding a section.
type CreateSectionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r CreateSectionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
	)
}

// Model converts the request into a section owned by userID.
func (r CreateSectionRequest) Model(userID string) Section {
	return Section{
		UserID:  userID,
		Title:   r.Title,
		Content: r.Content,
	}
}

// UpdateSectionRequest carries a partial update; only set fields change.
type UpdateSectionRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r UpdateSectionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
	)
}
