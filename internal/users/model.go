package users

import "time"

// User is an account. Password accounts carry a bcrypt hash; accounts created
// through an OAuth provider leave it empty and are keyed by a provider-scoped
// username.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	FullName     string    `json:"fullName,omitempty"`
	PictureURL   string    `json:"pictureUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
