package chat

import "servicehub/internal/domain"

type OpenConversationRequest struct {
	PeerID int64 `json:"peer_id" binding:"required"`
}

type SendMessageRequest struct {
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
}

// ConversationView is a list item with the unread count for the caller.
type ConversationView struct {
	*domain.Conversation
	UnreadCount int64 `json:"unread_count"`
}
