package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")

	// ErrInvalidSignature is a protocol error: the callback did not carry a
	// valid secure hash. It never reaches the customer as a raw error.
	ErrInvalidSignature = errors.New("invalid gateway signature")

	// ErrDuplicatePeriod means a non-cancelled settlement already exists for
	// the requested (hotel, period) pair.
	ErrDuplicatePeriod = errors.New("settlement already exists for this period")

	// ErrAlreadyPaid means the settlement was paid out before and is immutable.
	ErrAlreadyPaid = errors.New("settlement already paid")

	// ErrNoEligibleReservations means the settlement selection came up empty.
	ErrNoEligibleReservations = errors.New("no eligible reservations for settlement")

	// ErrRescheduleNotFound means a reschedule callback arrived for a
	// reservation with no reschedule charge on record.
	ErrRescheduleNotFound = errors.New("reschedule payment not found")
)
