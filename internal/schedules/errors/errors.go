package errors

import "errors"

var (
	ErrNotFound = errors.New("slot not found")

	ErrInvalidID = errors.New("invalid slot ID format")

	ErrDuplicateBlock = errors.New("slot is already blocked")
)
