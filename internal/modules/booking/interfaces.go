package booking

import (
	"context"

	"servicehub/internal/domain"
)

// BookingStore is the persistence surface for booking records.
type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64, status string, limit, offset int) ([]domain.Booking, error)
	ListByProvider(ctx context.Context, providerID int64, status string, limit, offset int) ([]domain.Booking, error)
	CountActive(ctx context.Context, providerID int64, task string) (int64, error)
	UpdateStatusIf(ctx context.Context, id int64, expected, next domain.BookingStatus, extra map[string]any) (bool, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	SetPayment(ctx context.Context, id int64, method, reference, receiptURL string) error
}

// ServiceCatalog resolves a provider's listing for capacity and pricing.
type ServiceCatalog interface {
	GetServiceByTask(ctx context.Context, providerID int64, task string) (*domain.ProviderService, error)
}

// UserStore resolves the provider side of a new booking.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier delivers the transition side effects to the counterpart.
type Notifier interface {
	NotifyBookingRequested(ctx context.Context, providerID, bookingID int64, task string) error
	NotifyBookingConfirmed(ctx context.Context, customerID, bookingID int64) error
	NotifyBookingDeclined(ctx context.Context, customerID, bookingID int64, reason string) error
	NotifyBookingStarted(ctx context.Context, customerID, bookingID int64) error
	NotifyBookingCancelled(ctx context.Context, receiverID, bookingID int64, reason string) error
	NotifyCompletionRequested(ctx context.Context, customerID, bookingID int64) error
	NotifyBookingCompleted(ctx context.Context, providerID, bookingID int64) error
	NotifyCompletionRejected(ctx context.Context, providerID, bookingID int64) error
}
