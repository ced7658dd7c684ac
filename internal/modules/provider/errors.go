package provider

import "errors"

var (
	ErrNotFound   = errors.New("provider or service not found")
	ErrForbidden  = errors.New("not the owner of this listing")
	ErrValidation = errors.New("validation error")
)
