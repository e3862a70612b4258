package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist.
	ErrNotFound = errors.New("resume not found")

	// ErrItemNotFound indicates a referenced library entry or placement
	// does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid resume input")

	// ErrLocked indicates the resume is locked against structural changes.
	ErrLocked = errors.New("resume is locked")

	// ErrMasterOnly indicates an operation that only the master resume
	// may perform.
	ErrMasterOnly = errors.New("only the master resume can create new entries")

	// ErrMasterImmutable indicates an attempt to delete the master resume.
	ErrMasterImmutable = errors.New("the master resume cannot be deleted")
)
