package sections

import "time"

// Section is a free-form block in a user's library, for things like a
// summary, skills, or publications.
type Section struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s Section) OwnerID() string { return s.UserID }
