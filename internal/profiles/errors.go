package profiles

import "errors"

var (
	// ErrNotFound is returned when the user has no profile (or no photo) yet.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidInput is returned when required fields are missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
)
