package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"servicehub/internal/domain"
)

// Preference keys gating enqueue-time delivery.
const (
	PrefBookings = "bookings"
	PrefMessages = "messages"
)

type Service struct {
	store      NotificationStore
	settings   SettingsSource
	dispatcher *Dispatcher
	log        *zap.Logger
}

func NewService(store NotificationStore, settings SettingsSource, dispatcher *Dispatcher, log *zap.Logger) *Service {
	return &Service{
		store:      store,
		settings:   settings,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Notify always enqueues and hands the record to the dispatcher.
func (s *Service) Notify(ctx context.Context, receiverID int64, title, body, screen string, params map[string]any) error {
	n := &domain.Notification{
		ReceiverID: receiverID,
		Title:      title,
		Body:       body,
		Screen:     screen,
		Prompt:     false,
		SentAt:     time.Now(),
	}
	if err := n.SetParams(params); err != nil {
		return err
	}

	if err := s.store.Create(ctx, n); err != nil {
		return err
	}

	s.dispatcher.Dispatch(ctx, n)
	return nil
}

// NotifyIfEnabled enqueues only when the receiver's settings allow the key.
// The gate is checked against the receiver's preferences at enqueue time,
// not the sender's.
func (s *Service) NotifyIfEnabled(ctx context.Context, receiverID int64, key, title, body, screen string, params map[string]any) error {
	prefs, err := s.settings.Get(ctx, receiverID)
	if err != nil {
		return err
	}

	switch key {
	case PrefBookings:
		if !prefs.Bookings {
			return nil
		}
	case PrefMessages:
		if !prefs.Messages {
			return nil
		}
	default:
		return ErrBadPrefKey
	}

	return s.Notify(ctx, receiverID, title, body, screen, params)
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.store.ListByReceiver(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.CountByReceiver(ctx, userID)
	if err != nil {
		total = int64(len(list))
	}

	return list, total, nil
}

// MarkAllSeen discards every notification destined for the given screen.
// Eager at-most-once consumption: once the user focuses the screen, the
// alerts are gone whether or not they were individually opened.
func (s *Service) MarkAllSeen(ctx context.Context, userID int64, screen string) error {
	switch screen {
	case domain.ScreenJobStatus, domain.ScreenMessage, domain.ScreenMain:
	default:
		return ErrBadScreen
	}
	return s.store.DeleteByReceiverScreen(ctx, userID, screen)
}

func (s *Service) RegisterDeviceToken(ctx context.Context, userID int64, token, platform string) error {
	return s.store.RegisterDeviceToken(ctx, &domain.DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}

// Booking lifecycle events. All ride the bookings preference and deep-link
// into the JobStatus screen with the booking id.

func (s *Service) NotifyBookingRequested(ctx context.Context, providerID, bookingID int64, task string) error {
	return s.NotifyIfEnabled(ctx, providerID, PrefBookings,
		"New booking request",
		fmt.Sprintf("You have a new booking request for %s", task),
		domain.ScreenJobStatus,
		map[string]any{"booking_id": bookingID},
	)
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, customerID, bookingID int64) error {
	return s.NotifyIfEnabled(ctx, customerID, PrefBookings,
		"Booking accepted",
		"Your booking has been accepted by the provider",
		domain.ScreenJobStatus,
		map[string]any{"booking_id": bookingID},
	)
}

func (s *Service) NotifyBookingDeclined(ctx context.Context, customerID, bookingID int64, reason string) error {
	body := "Your booking was declined"
	if reason != "" {
		body += ". Reason: " + reason
	}
	return s.NotifyIfEnabled(ctx, customerID, PrefBookings,
		"Booking declined", body,
		domain.ScreenJobStatus,
		map[string]any{"booking_id": bookingID},
	)
}

func (s *Service) NotifyBookingStarted(ctx context.Context, customerID, bookingID int64) error {
	return s.NotifyIfEnabled(ctx, customerID, PrefBookings,
		"Work started",
		"The provider has started working on your booking",
		domain.ScreenJobStatus,
		map[string]any{"booking_id": bookingID},
	)
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, receiverID, bookingID int64, reason string) error {
	body := "The booking has been cancelled"
	if reason != "" {
		body += ". Reason: " + reason
	}
	return s.NotifyIfEnabled(ctx, receiverID, PrefBookings,
		"Booking cancelled", body,
		domain.ScreenJobStatus,
		map[string]any{"booking_id": bookingID},
	)
}

func (s *Service) NotifyCompletionRequested(ctx context.Context, customerID, bookingID int64) error {
	return s.NotifyIfEnabled(ctx, customerID, PrefBookings,
		"Work finished",
		"The provider marked the job as finished. Please confirm completion",
		domain.ScreenJobStatus,
		map[string]any{"booking_id": bookingID},
	)
}

func (s *Service) NotifyBookingCompleted(ctx context.Context, providerID, bookingID int64) error {
	return s.NotifyIfEnabled(ctx, providerID, PrefBookings,
		"Booking completed",
		"The customer confirmed completion of the booking",
		domain.ScreenJobStatus,
		map[string]any{"booking_id": bookingID},
	)
}

func (s *Service) NotifyCompletionRejected(ctx context.Context, providerID, bookingID int64) error {
	return s.NotifyIfEnabled(ctx, providerID, PrefBookings,
		"Completion rejected",
		"The customer sent the job back to in progress",
		domain.ScreenJobStatus,
		map[string]any{"booking_id": bookingID},
	)
}

// NotifyNewMessage rides the messages preference and deep-links into chat.
func (s *Service) NotifyNewMessage(ctx context.Context, receiverID, conversationID int64, senderName, preview string) error {
	return s.NotifyIfEnabled(ctx, receiverID, PrefMessages,
		senderName, preview,
		domain.ScreenMessage,
		map[string]any{"conversation_id": conversationID},
	)
}

func (s *Service) NotifyNewReview(ctx context.Context, providerID, bookingID int64, stars int) error {
	return s.NotifyIfEnabled(ctx, providerID, PrefBookings,
		"New review",
		fmt.Sprintf("You received a new %d-star review", stars),
		domain.ScreenMain,
		map[string]any{"booking_id": bookingID},
	)
}

// NotifyAccountBanned enqueues the forced sign-out signal. Always sent — a
// ban is not gated by the receiver's preferences.
func (s *Service) NotifyAccountBanned(ctx context.Context, userID int64, reason string) error {
	return s.Notify(ctx, userID,
		"Account suspended", reason,
		domain.ScreenLogin,
		nil,
	)
}
