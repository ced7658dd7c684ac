package upload

import "errors"

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrNotFound        = errors.New("upload not found")
	ErrNotOwner        = errors.New("you do not own this upload")
)
