package booking

import "errors"

var (
	ErrNotFound           = errors.New("booking not found")
	ErrForbidden          = errors.New("actor is not a party to this booking")
	ErrValidation         = errors.New("validation error")
	ErrReasonRequired     = errors.New("a non-empty reason is required")
	ErrFullyBooked        = errors.New("service is fully booked")
	ErrStatusConflict     = errors.New("booking status changed concurrently")
	ErrDuplicateReference = errors.New("payment reference already used")
	ErrServiceNotFound    = errors.New("provider service not found")
)
