package experiences

import "errors"

var (
	ErrNotFound     = errors.New("experience not found")
	ErrInvalidInput = errors.New("invalid experience input")
)
