package experiences

import "time"

// Experience is one entry in a user's work-history library. Bullets are
// not stored here; they attach to the placement of an experience on a
// particular resume, so each resume can tell the story differently.
type Experience struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Company   string    `json:"company"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e Experience) OwnerID() string { return e.UserID }
