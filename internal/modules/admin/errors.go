package admin

import "errors"

var (
	ErrNotFound    = errors.New("user not found")
	ErrSelfBan     = errors.New("cannot ban yourself")
	ErrAdminTarget = errors.New("cannot ban an admin account")
)
