package notification

import (
	"context"

	"servicehub/internal/domain"
	"servicehub/internal/modules/realtime"
)

// NotificationStore is the persistence surface the service and dispatcher use.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListByReceiver(ctx context.Context, receiverID int64, limit int) ([]domain.Notification, error)
	ListUnprompted(ctx context.Context, receiverID int64) ([]domain.Notification, error)
	MarkPrompted(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	DeleteByReceiverScreen(ctx context.Context, receiverID int64, screen string) error
	CountByReceiver(ctx context.Context, receiverID int64) (int64, error)
	RegisterDeviceToken(ctx context.Context, t *domain.DeviceToken) error
	DeviceTokensForUser(ctx context.Context, userID int64) ([]domain.DeviceToken, error)
}

// SettingsSource exposes the receiver's current preferences to the long-lived
// dispatch path without re-subscription, plus eviction on forced sign-out.
type SettingsSource interface {
	Get(ctx context.Context, userID int64) (domain.Settings, error)
	Evict(userID int64)
}

// Pusher is the realtime channel into connected clients.
type Pusher interface {
	SendToUser(userID int64, event *realtime.Event) bool
	CloseUser(userID int64)
	IsOnline(userID int64) bool
}
