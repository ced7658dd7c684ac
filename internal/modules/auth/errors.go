package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("wrong email or password")
	ErrUserBanned         = errors.New("account is suspended")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrValidation         = errors.New("validation error")
)
