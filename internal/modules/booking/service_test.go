package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) ListByCustomer(ctx context.Context, customerID int64, status string, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID, status, limit, offset)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) ListByProvider(ctx context.Context, providerID int64, status string, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, providerID, status, limit, offset)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) CountActive(ctx context.Context, providerID int64, task string) (int64, error) {
	args := m.Called(ctx, providerID, task)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingStore) UpdateStatusIf(ctx context.Context, id int64, expected, next domain.BookingStatus, extra map[string]any) (bool, error) {
	args := m.Called(ctx, id, expected, next, extra)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) SetPayment(ctx context.Context, id int64, method, reference, receiptURL string) error {
	args := m.Called(ctx, id, method, reference, receiptURL)
	return args.Error(0)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetServiceByTask(ctx context.Context, providerID int64, task string) (*domain.ProviderService, error) {
	args := m.Called(ctx, providerID, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderService), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyBookingRequested(ctx context.Context, providerID, bookingID int64, task string) error {
	args := m.Called(ctx, providerID, bookingID, task)
	return args.Error(0)
}

func (m *MockNotifier) NotifyBookingConfirmed(ctx context.Context, customerID, bookingID int64) error {
	args := m.Called(ctx, customerID, bookingID)
	return args.Error(0)
}

func (m *MockNotifier) NotifyBookingDeclined(ctx context.Context, customerID, bookingID int64, reason string) error {
	args := m.Called(ctx, customerID, bookingID, reason)
	return args.Error(0)
}

func (m *MockNotifier) NotifyBookingStarted(ctx context.Context, customerID, bookingID int64) error {
	args := m.Called(ctx, customerID, bookingID)
	return args.Error(0)
}

func (m *MockNotifier) NotifyBookingCancelled(ctx context.Context, receiverID, bookingID int64, reason string) error {
	args := m.Called(ctx, receiverID, bookingID, reason)
	return args.Error(0)
}

func (m *MockNotifier) NotifyCompletionRequested(ctx context.Context, customerID, bookingID int64) error {
	args := m.Called(ctx, customerID, bookingID)
	return args.Error(0)
}

func (m *MockNotifier) NotifyBookingCompleted(ctx context.Context, providerID, bookingID int64) error {
	args := m.Called(ctx, providerID, bookingID)
	return args.Error(0)
}

func (m *MockNotifier) NotifyCompletionRejected(ctx context.Context, providerID, bookingID int64) error {
	args := m.Called(ctx, providerID, bookingID)
	return args.Error(0)
}

func newTestService() (*Service, *MockBookingStore, *MockCatalog, *MockUserStore, *MockNotifier) {
	bookings := new(MockBookingStore)
	catalog := new(MockCatalog)
	users := new(MockUserStore)
	notifs := new(MockNotifier)
	svc := NewService(bookings, catalog, users, notifs, zap.NewNop())
	return svc, bookings, catalog, users, notifs
}

func TestService_Create_Success(t *testing.T) {
	svc, bookings, catalog, users, notifs := newTestService()

	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{
		ID: 2, Role: domain.RoleProvider, Service: "Plumbing",
	}, nil)
	catalog.On("GetServiceByTask", mock.Anything, int64(2), "Plumbing").Return(&domain.ProviderService{
		ProviderID: 2, Task: "Plumbing", Price: 75, Personels: 2,
	}, nil)
	bookings.On("CountActive", mock.Anything, int64(2), "Plumbing").Return(int64(1), nil)
	bookings.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifs.On("NotifyBookingRequested", mock.Anything, int64(2), int64(999), "Plumbing").Return(nil)

	b, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		ProviderID: 2,
		Task:       "Plumbing",
		Date:       "2026-09-10",
		Time:       "10:00",
		Address:    "12 Main Street",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, int64(1), b.CustomerID)
	assert.Equal(t, 75.0, b.Price)
	notifs.AssertExpectations(t)
}

func TestService_Create_FullyBooked(t *testing.T) {
	svc, bookings, catalog, users, _ := newTestService()

	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{
		ID: 2, Role: domain.RoleProvider,
	}, nil)
	catalog.On("GetServiceByTask", mock.Anything, int64(2), "Plumbing").Return(&domain.ProviderService{
		ProviderID: 2, Task: "Plumbing", Personels: 2,
	}, nil)
	// Two confirmed bookings already hold both slots.
	bookings.On("CountActive", mock.Anything, int64(2), "Plumbing").Return(int64(2), nil)

	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		ProviderID: 2, Task: "Plumbing",
	})

	assert.ErrorIs(t, err, ErrFullyBooked)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_UnknownListing(t *testing.T) {
	svc, _, catalog, users, _ := newTestService()

	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{
		ID: 2, Role: domain.RoleProvider,
	}, nil)
	catalog.On("GetServiceByTask", mock.Anything, int64(2), "Gardening").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		ProviderID: 2, Task: "Gardening",
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_Confirm_Success(t *testing.T) {
	svc, bookings, _, _, notifs := newTestService()

	pending := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingPending}
	confirmed := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingConfirmed}

	bookings.On("GetByID", mock.Anything, int64(10)).Return(pending, nil).Once()
	bookings.On("UpdateStatusIf", mock.Anything, int64(10), domain.BookingPending, domain.BookingConfirmed, mock.Anything).Return(true, nil)
	bookings.On("GetByID", mock.Anything, int64(10)).Return(confirmed, nil).Once()
	notifs.On("NotifyBookingConfirmed", mock.Anything, int64(1), int64(10)).Return(nil)

	b, err := svc.Confirm(context.Background(), 10, 2)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	notifs.AssertExpectations(t)
}

func TestService_Confirm_NotProvider(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingPending,
	}, nil)

	// The customer cannot confirm their own request.
	_, err := svc.Confirm(context.Background(), 10, 1)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Confirm_LostRace(t *testing.T) {
	svc, bookings, _, _, notifs := newTestService()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingPending,
	}, nil)
	// A concurrent transition moved the booking between the read and the update.
	bookings.On("UpdateStatusIf", mock.Anything, int64(10), domain.BookingPending, domain.BookingConfirmed, mock.Anything).Return(false, nil)

	_, err := svc.Confirm(context.Background(), 10, 2)

	assert.ErrorIs(t, err, ErrStatusConflict)
	notifs.AssertNotCalled(t, "NotifyBookingConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Decline_RequiresReason(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	_, err := svc.Decline(context.Background(), 10, 2, "   ")

	assert.ErrorIs(t, err, ErrReasonRequired)
	bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_Decline_Success(t *testing.T) {
	svc, bookings, _, _, notifs := newTestService()

	pending := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingPending}
	declined := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingDeclined, DeclineReason: "fully booked that day"}

	bookings.On("GetByID", mock.Anything, int64(10)).Return(pending, nil).Once()
	bookings.On("UpdateStatusIf", mock.Anything, int64(10), domain.BookingPending, domain.BookingDeclined,
		mock.MatchedBy(func(extra map[string]any) bool {
			return extra["decline_reason"] == "fully booked that day"
		})).Return(true, nil)
	bookings.On("GetByID", mock.Anything, int64(10)).Return(declined, nil).Once()
	notifs.On("NotifyBookingDeclined", mock.Anything, int64(1), int64(10), "fully booked that day").Return(nil)

	b, err := svc.Decline(context.Background(), 10, 2, "fully booked that day")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingDeclined, b.Status)
}

func TestService_Cancel_EitherParty(t *testing.T) {
	svc, bookings, _, _, notifs := newTestService()

	confirmed := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingConfirmed}
	cancelled := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingCancelled}

	bookings.On("GetByID", mock.Anything, int64(10)).Return(confirmed, nil).Once()
	bookings.On("UpdateStatusIf", mock.Anything, int64(10), domain.BookingConfirmed, domain.BookingCancelled, mock.Anything).Return(true, nil)
	bookings.On("GetByID", mock.Anything, int64(10)).Return(cancelled, nil).Once()
	// Customer cancels, so the provider is notified.
	notifs.On("NotifyBookingCancelled", mock.Anything, int64(2), int64(10), "plans changed").Return(nil)

	b, err := svc.Cancel(context.Background(), 10, 1, "plans changed")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	notifs.AssertExpectations(t)
}

func TestService_Cancel_FromPending(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingPending,
	}, nil)

	_, err := svc.Cancel(context.Background(), 10, 1, "changed my mind")

	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestService_Cancel_Outsider(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingConfirmed,
	}, nil)

	_, err := svc.Cancel(context.Background(), 10, 77, "not my booking")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_CompletionHandshake(t *testing.T) {
	svc, bookings, _, _, notifs := newTestService()

	onProcess := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingOnProcess}
	waiting := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingWaiting}
	completed := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingCompleted}

	// Provider asks for completion.
	bookings.On("GetByID", mock.Anything, int64(10)).Return(onProcess, nil).Once()
	bookings.On("UpdateStatusIf", mock.Anything, int64(10), domain.BookingOnProcess, domain.BookingWaiting, mock.Anything).Return(true, nil).Once()
	bookings.On("GetByID", mock.Anything, int64(10)).Return(waiting, nil).Once()
	notifs.On("NotifyCompletionRequested", mock.Anything, int64(1), int64(10)).Return(nil)

	b, err := svc.RequestCompletion(context.Background(), 10, 2)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingWaiting, b.Status)

	// Customer approves.
	bookings.On("GetByID", mock.Anything, int64(10)).Return(waiting, nil).Once()
	bookings.On("UpdateStatusIf", mock.Anything, int64(10), domain.BookingWaiting, domain.BookingCompleted, mock.Anything).Return(true, nil).Once()
	bookings.On("GetByID", mock.Anything, int64(10)).Return(completed, nil).Once()
	notifs.On("NotifyBookingCompleted", mock.Anything, int64(2), int64(10)).Return(nil)

	b, err = svc.Approve(context.Background(), 10, 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, b.Status)
	notifs.AssertExpectations(t)
}

func TestService_RejectCompletion_BackToProgress(t *testing.T) {
	svc, bookings, _, _, notifs := newTestService()

	waiting := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingWaiting}
	onProcess := &domain.Booking{ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingOnProcess}

	bookings.On("GetByID", mock.Anything, int64(10)).Return(waiting, nil).Once()
	bookings.On("UpdateStatusIf", mock.Anything, int64(10), domain.BookingWaiting, domain.BookingOnProcess, mock.Anything).Return(true, nil)
	bookings.On("GetByID", mock.Anything, int64(10)).Return(onProcess, nil).Once()
	notifs.On("NotifyCompletionRejected", mock.Anything, int64(2), int64(10)).Return(nil)

	b, err := svc.RejectCompletion(context.Background(), 10, 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingOnProcess, b.Status)
}

func TestService_Approve_ProviderCannotSelfApprove(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingWaiting,
	}, nil)

	_, err := svc.Approve(context.Background(), 10, 2)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_SubmitPayment_DuplicateReference(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingWaiting,
	}, nil)
	bookings.On("ReferenceExists", mock.Anything, "GC-12345").Return(true, nil)

	_, err := svc.SubmitPayment(context.Background(), 10, 1, PaymentRequest{
		PaymentMethod:   "gcash",
		ReferenceNumber: "GC-12345",
	})

	assert.ErrorIs(t, err, ErrDuplicateReference)
	bookings.AssertNotCalled(t, "SetPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitPayment_Success(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	paid := &domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingWaiting,
		PaymentMethod: "gcash", ReferenceNumber: "GC-777",
	}

	bookings.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingWaiting,
	}, nil).Once()
	bookings.On("ReferenceExists", mock.Anything, "GC-777").Return(false, nil)
	bookings.On("SetPayment", mock.Anything, int64(10), "gcash", "GC-777", "/static/uploads/r.jpg").Return(nil)
	bookings.On("GetByID", mock.Anything, int64(10)).Return(paid, nil).Once()

	b, err := svc.SubmitPayment(context.Background(), 10, 1, PaymentRequest{
		PaymentMethod:   "gcash",
		ReferenceNumber: "GC-777",
		ReceiptURL:      "/static/uploads/r.jpg",
	})

	assert.NoError(t, err)
	assert.Equal(t, "GC-777", b.ReferenceNumber)
}

func TestService_GetByID_PartyOnly(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(&domain.Booking{
		ID: 10, CustomerID: 1, ProviderID: 2, Status: domain.BookingConfirmed,
	}, nil)

	_, err := svc.GetByID(context.Background(), 10, 1)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 10, 33)
	assert.ErrorIs(t, err, ErrForbidden)
}
