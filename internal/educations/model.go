package educations

import "time"

// Education is one entry in a user's education library. The same entry can
// appear on any number of resumes; editing it changes every resume that
// includes it.
type Education struct {
	ID           string    `json:"id"`
	UserID       string    `json:"-"`
	School       string    `json:"school"`
	Degree       string    `json:"degree,omitempty"`
	FieldOfStudy string    `json:"fieldOfStudy,omitempty"`
	StartYear    int       `json:"startYear,omitempty"`
	EndYear      int       `json:"endYear,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (e Education) OwnerID() string { return e.UserID }
