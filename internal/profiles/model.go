package profiles

import "time"

// Profile is the singleton contact card shown at the top of every composed
// resume. One row per user, written through an explicit upsert.
type Profile struct {
	UserID    string    `json:"-"`
	Headline  string    `json:"headline,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Website   string    `json:"website,omitempty"`
	Location  string    `json:"location,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	PhotoKey  string    `json:"-"`
	PhotoMime string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
