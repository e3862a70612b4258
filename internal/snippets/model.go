package snippets

import "time"

// DefaultKind tags snippets created without an explicit content type.
const DefaultKind = "bullet"

// Snippet is one immutable version of a reusable text snippet. LineageID
// groups every version of the same logical snippet; Version distinguishes
// them and grows monotonically within a lineage.
type Snippet struct {
	LineageID string    `json:"lineageId"`
	Version   int64     `json:"version"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// OwnerID returns the owning user.
func (s Snippet) OwnerID() string { return s.UserID }
