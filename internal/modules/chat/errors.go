package chat

import "errors"

var (
	ErrNotFound       = errors.New("conversation not found")
	ErrNotParticipant = errors.New("user is not a participant")
	ErrEmptyMessage   = errors.New("message must have text or an image")
	ErrSamePeer       = errors.New("cannot start a conversation with yourself")
)
