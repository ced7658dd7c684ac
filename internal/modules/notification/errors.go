package notification

import "errors"

var (
	ErrNotFound   = errors.New("notification not found")
	ErrBadScreen  = errors.New("unknown notification screen")
	ErrBadPrefKey = errors.New("unknown preference key")
)
