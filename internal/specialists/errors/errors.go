package errors

import "errors"

var (
	ErrNotFound = errors.New("specialist not found")

	ErrInvalidID = errors.New("invalid ID format")

	ErrClinicNotFound = errors.New("clinic not found")

	ErrBankAccountNotFound = errors.New("bank account not found")

	ErrPayoutNotFound = errors.New("payout request not found")
)
