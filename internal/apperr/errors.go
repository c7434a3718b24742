package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidColumn = errors.New("invalid column")
)
