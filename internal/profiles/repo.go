package profiles

import "context"

type Repo interface {
	Get(ctx context.Context, userID string) (Profile, error)
	// Upsert writes the contact fields, leaving any stored photo untouched.
	// The second return reports whether the row was created by this call.
	Upsert(ctx context.Context, profile Profile) (Profile, bool, error)
	// SetPhoto records the stored object for the user's photo, creating the
	// profile row if the photo arrives before any contact info.
	SetPhoto(ctx context.Context, userID, photoKey, photoMime string) error
}
