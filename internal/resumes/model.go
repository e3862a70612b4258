package resumes

import "time"

// Resume is a named arrangement of shared library entries. Exactly one
// resume per user is the master; new library entries enter the system
// through it. A locked resume rejects structural changes until unlocked.
type Resume struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Name       string    `json:"name"`
	IsMaster   bool      `json:"isMaster"`
	IsTemplate bool      `json:"isTemplate"`
	IsLocked   bool      `json:"isLocked"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (r Resume) OwnerID() string { return r.UserID }
