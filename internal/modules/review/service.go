package review

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type ReviewStore interface {
	Create(ctx context.Context, rating *domain.Rating) error
	ExistsForBooking(ctx context.Context, bookingID int64) (bool, error)
	ListByProvider(ctx context.Context, providerID int64, limit, offset int) ([]domain.Rating, int64, error)
}

type UserStore interface {
	AddRating(ctx context.Context, providerID int64, stars int) error
}

type Notifier interface {
	NotifyNewReview(ctx context.Context, providerID, bookingID int64, stars int) error
}

type Service struct {
	reviews  ReviewStore
	bookings BookingStore
	users    UserStore
	notifs   Notifier
	log      *zap.Logger
}

func NewService(reviews ReviewStore, bookings BookingStore, users UserStore, notifs Notifier, log *zap.Logger) *Service {
	return &Service{
		reviews:  reviews,
		bookings: bookings,
		users:    users,
		notifs:   notifs,
		log:      log,
	}
}

// Create records one review per completed booking, by its customer only, and
// folds the stars into the provider's running aggregate.
func (s *Service) Create(ctx context.Context, customerID int64, req CreateReviewRequest) (*domain.Rating, error) {
	if req.Stars < 1 || req.Stars > 5 {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrNotCompleted
	}

	exists, err := s.reviews.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rating := &domain.Rating{
		BookingID:  b.ID,
		ProviderID: b.ProviderID,
		CustomerID: customerID,
		Stars:      req.Stars,
		Review:     strings.TrimSpace(req.Review),
	}
	if err := s.reviews.Create(ctx, rating); err != nil {
		return nil, err
	}

	if err := s.users.AddRating(ctx, b.ProviderID, req.Stars); err != nil {
		s.log.Warn("rating aggregate update failed", zap.Error(err), zap.Int64("provider_id", b.ProviderID))
	}
	if err := s.notifs.NotifyNewReview(ctx, b.ProviderID, b.ID, req.Stars); err != nil {
		s.log.Warn("review notification failed", zap.Error(err), zap.Int64("booking_id", b.ID))
	}

	return rating, nil
}

func (s *Service) ListByProvider(ctx context.Context, providerID int64, limit, offset int) ([]domain.Rating, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reviews.ListByProvider(ctx, providerID, limit, offset)
}
