package review

import "errors"

var (
	ErrNotFound        = errors.New("booking not found")
	ErrForbidden       = errors.New("only the booking customer may review")
	ErrNotCompleted    = errors.New("booking is not completed yet")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
	ErrValidation      = errors.New("validation error")
)
