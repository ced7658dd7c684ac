package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub/internal/domain"
)

// Service is the booking lifecycle controller. Every status transition is one
// conditional update guarded by the expected prior status; a stale expectation
// surfaces as ErrStatusConflict instead of silently overwriting a concurrent
// transition.
type Service struct {
	bookings BookingStore
	catalog  ServiceCatalog
	users    UserStore
	notifs   Notifier
	log      *zap.Logger
}

func NewService(bookings BookingStore, catalog ServiceCatalog, users UserStore, notifs Notifier, log *zap.Logger) *Service {
	return &Service{
		bookings: bookings,
		catalog:  catalog,
		users:    users,
		notifs:   notifs,
		log:      log,
	}
}

// Create places a new Pending booking against a provider's listing. The
// request is rejected before any write when the listing's active bookings
// already fill its personels capacity.
func (s *Service) Create(ctx context.Context, customerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	provider, err := s.users.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !provider.IsProvider() {
		return nil, ErrValidation
	}

	listing, err := s.catalog.GetServiceByTask(ctx, req.ProviderID, req.Task)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	active, err := s.bookings.CountActive(ctx, req.ProviderID, req.Task)
	if err != nil {
		return nil, err
	}
	if active >= int64(listing.Personels) {
		return nil, ErrFullyBooked
	}

	b := &domain.Booking{
		CustomerID: customerID,
		ProviderID: req.ProviderID,
		Service:    provider.Service,
		Task:       listing.Task,
		Price:      listing.Price,
		Date:       req.Date,
		Time:       req.Time,
		Address:    req.Address,
		Status:     domain.BookingPending,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	if err := s.notifs.NotifyBookingRequested(ctx, b.ProviderID, b.ID, b.Task); err != nil {
		s.log.Warn("booking request notification failed", zap.Error(err), zap.Int64("booking_id", b.ID))
	}

	return b, nil
}

// Confirm: Pending -> Confirmed, provider only.
func (s *Service) Confirm(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != actorID {
		return nil, ErrForbidden
	}

	b, err = s.apply(ctx, b, domain.BookingPending, domain.BookingConfirmed,
		map[string]any{"confirmed_at": time.Now()})
	if err != nil {
		return nil, err
	}

	s.notify(b.ID, s.notifs.NotifyBookingConfirmed(ctx, b.CustomerID, b.ID))
	return b, nil
}

// Decline: Pending -> Declined, provider only, reason mandatory.
func (s *Service) Decline(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != actorID {
		return nil, ErrForbidden
	}

	b, err = s.apply(ctx, b, domain.BookingPending, domain.BookingDeclined,
		map[string]any{"declined_at": time.Now(), "decline_reason": reason})
	if err != nil {
		return nil, err
	}

	s.notify(b.ID, s.notifs.NotifyBookingDeclined(ctx, b.CustomerID, b.ID, reason))
	return b, nil
}

// Start: Confirmed -> On Process, provider only.
func (s *Service) Start(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != actorID {
		return nil, ErrForbidden
	}

	b, err = s.apply(ctx, b, domain.BookingConfirmed, domain.BookingOnProcess,
		map[string]any{"progress_at": time.Now()})
	if err != nil {
		return nil, err
	}

	s.notify(b.ID, s.notifs.NotifyBookingStarted(ctx, b.CustomerID, b.ID))
	return b, nil
}

// Cancel: Confirmed or On Process -> Cancelled, by either party, reason
// mandatory. The counterpart is notified.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Party(actorID) {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingConfirmed && b.Status != domain.BookingOnProcess {
		return nil, ErrStatusConflict
	}

	b, err = s.apply(ctx, b, b.Status, domain.BookingCancelled,
		map[string]any{"cancelled_at": time.Now(), "cancel_reason": reason})
	if err != nil {
		return nil, err
	}

	s.notify(b.ID, s.notifs.NotifyBookingCancelled(ctx, b.Counterpart(actorID), b.ID, reason))
	return b, nil
}

// RequestCompletion: On Process -> Waiting for Confirmation, provider only.
func (s *Service) RequestCompletion(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != actorID {
		return nil, ErrForbidden
	}

	b, err = s.apply(ctx, b, domain.BookingOnProcess, domain.BookingWaiting,
		map[string]any{"completed_at": time.Now()})
	if err != nil {
		return nil, err
	}

	s.notify(b.ID, s.notifs.NotifyCompletionRequested(ctx, b.CustomerID, b.ID))
	return b, nil
}

// Approve: Waiting for Confirmation -> Completed, customer only.
func (s *Service) Approve(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actorID {
		return nil, ErrForbidden
	}

	b, err = s.apply(ctx, b, domain.BookingWaiting, domain.BookingCompleted,
		map[string]any{"done_at": time.Now()})
	if err != nil {
		return nil, err
	}

	s.notify(b.ID, s.notifs.NotifyBookingCompleted(ctx, b.ProviderID, b.ID))
	return b, nil
}

// RejectCompletion: Waiting for Confirmation -> On Process, customer only.
// No new timestamp beyond the prior progress_at.
func (s *Service) RejectCompletion(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actorID {
		return nil, ErrForbidden
	}

	b, err = s.apply(ctx, b, domain.BookingWaiting, domain.BookingOnProcess, nil)
	if err != nil {
		return nil, err
	}

	s.notify(b.ID, s.notifs.NotifyCompletionRejected(ctx, b.ProviderID, b.ID))
	return b, nil
}

// SubmitPayment records the customer's payment details. A reference number
// may be used once across all bookings.
func (s *Service) SubmitPayment(ctx context.Context, bookingID, actorID int64, req PaymentRequest) (*domain.Booking, error) {
	reference := strings.TrimSpace(req.ReferenceNumber)
	if reference == "" {
		return nil, ErrValidation
	}

	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actorID {
		return nil, ErrForbidden
	}

	used, err := s.bookings.ReferenceExists(ctx, reference)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrDuplicateReference
	}

	if err := s.bookings.SetPayment(ctx, b.ID, req.PaymentMethod, reference, req.ReceiptURL); err != nil {
		// Unique index closes the check-then-write race under postgres.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}

	return s.load(ctx, bookingID)
}

func (s *Service) GetByID(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Party(actorID) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, role domain.UserRole, status string, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if role == domain.RoleProvider {
		return s.bookings.ListByProvider(ctx, userID, status, limit, offset)
	}
	return s.bookings.ListByCustomer(ctx, userID, status, limit, offset)
}

func (s *Service) load(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// apply performs the compare-and-swap transition and reloads the record.
func (s *Service) apply(ctx context.Context, b *domain.Booking, expected, next domain.BookingStatus, extra map[string]any) (*domain.Booking, error) {
	if b.Status != expected {
		return nil, ErrStatusConflict
	}

	ok, err := s.bookings.UpdateStatusIf(ctx, b.ID, expected, next, extra)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStatusConflict
	}

	return s.load(ctx, b.ID)
}

// notify logs and drops side-effect failures: the transition already
// committed and must not be rolled back by a notification error.
func (s *Service) notify(bookingID int64, err error) {
	if err != nil {
		s.log.Warn("booking notification failed", zap.Error(err), zap.Int64("booking_id", bookingID))
	}
}
