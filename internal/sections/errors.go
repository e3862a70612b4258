package sections

import "errors"

var (
	ErrNotFound     = errors.New("section not found")
	ErrInvalidInput = errors.New("invalid section input")
)
