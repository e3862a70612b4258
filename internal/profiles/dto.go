package profiles

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type UpsertProfileRequest struct {
	Headline string `json:"headline"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}

func (r UpsertProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Headline, validation.Length(0, 200)),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Phone, validation.Length(0, 40)),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.Location, validation.Length(0, 200)),
		validation.Field(&r.Summary, validation.Length(0, 4000)),
	)
}

func (r UpsertProfileRequest) Model(userID string) Profile {
	return Profile{
		UserID:   userID,
		Headline: r.Headline,
		Email:    r.Email,
		Phone:    r.Phone,
		Website:  r.Website,
		Location: r.Location,
		Summary:  r.Summary,
	}
}

type ProfileResponse struct {
	Headline  string    `json:"headline,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Website   string    `json:"website,omitempty"`
	Location  string    `json:"location,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	HasPhoto  bool      `json:"hasPhoto"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(profile Profile) ProfileResponse {
	return ProfileResponse{
		Headline:  profile.Headline,
		Email:     profile.Email,
		Phone:     profile.Phone,
		Website:   profile.Website,
		Location:  profile.Location,
		Summary:   profile.Summary,
		HasPhoto:  profile.PhotoKey != "",
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}
