package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSlotTaken = errors.New("slot already has a non-cancelled booking")

	ErrLogNotFound = errors.New("daily log not found")

	ErrSpecialistNotFound = errors.New("specialist not found")
)
