package educations

import "errors"

var (
	ErrNotFound     = errors.New("education not found")
	ErrInvalidInput = errors.New("invalid education input")
)
