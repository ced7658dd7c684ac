package chat

import (
	"context"

	"servicehub/internal/domain"
	"servicehub/internal/modules/realtime"
)

type MessageStore interface {
	GetOrCreateConversation(ctx context.Context, customerID, providerID int64) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]domain.Conversation, error)
	CreateMessage(ctx context.Context, m *domain.Message) error
	ListMessages(ctx context.Context, conversationID int64, limit int) ([]domain.Message, error)
	MarkSeen(ctx context.Context, conversationID, readerID int64) error
	CountUnseen(ctx context.Context, conversationID, readerID int64) (int64, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier enqueues the preference-gated chat alert for offline recipients.
type Notifier interface {
	NotifyNewMessage(ctx context.Context, receiverID, conversationID int64, senderName, preview string) error
}

// Pusher is the live delivery channel.
type Pusher interface {
	SendToUser(userID int64, event *realtime.Event) bool
	IsOnline(userID int64) bool
}
