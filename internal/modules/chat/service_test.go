package chat

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub/internal/domain"
	"servicehub/internal/modules/realtime"
)

type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) GetOrCreateConversation(ctx context.Context, customerID, providerID int64) (*domain.Conversation, error) {
	args := m.Called(ctx, customerID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockMessageStore) GetConversation(ctx context.Context, id int64) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockMessageStore) ListConversations(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockMessageStore) CreateMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageStore) ListMessages(ctx context.Context, conversationID int64, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageStore) MarkSeen(ctx context.Context, conversationID, readerID int64) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

func (m *MockMessageStore) CountUnseen(ctx context.Context, conversationID, readerID int64) (int64, error) {
	args := m.Called(ctx, conversationID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockChatNotifier struct {
	mock.Mock
}

func (m *MockChatNotifier) NotifyNewMessage(ctx context.Context, receiverID, conversationID int64, senderName, preview string) error {
	args := m.Called(ctx, receiverID, conversationID, senderName, preview)
	return args.Error(0)
}

type MockChatHub struct {
	mock.Mock
}

func (m *MockChatHub) SendToUser(userID int64, event *realtime.Event) bool {
	args := m.Called(userID, event)
	return args.Bool(0)
}

func (m *MockChatHub) IsOnline(userID int64) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

func newChatService() (*Service, *MockMessageStore, *MockUsers, *MockChatNotifier, *MockChatHub) {
	messages := new(MockMessageStore)
	users := new(MockUsers)
	notifs := new(MockChatNotifier)
	hub := new(MockChatHub)
	svc := NewService(messages, users, notifs, hub, zap.NewNop())
	return svc, messages, users, notifs, hub
}

func TestOpen_OrientsCustomerProviderPair(t *testing.T) {
	svc, messages, users, _, _ := newChatService()

	// Provider opens the thread; the pair is still stored customer-first.
	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2, Role: domain.RoleProvider}, nil)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Role: domain.RoleCustomer}, nil)
	messages.On("GetOrCreateConversation", mock.Anything, int64(1), int64(2)).Return(&domain.Conversation{
		ID: 5, CustomerID: 1, ProviderID: 2,
	}, nil)

	conv, err := svc.Open(context.Background(), 2, 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), conv.CustomerID)
	assert.Equal(t, int64(2), conv.ProviderID)
}

func TestOpen_SelfChatRejected(t *testing.T) {
	svc, _, _, _, _ := newChatService()

	_, err := svc.Open(context.Background(), 1, 1)

	assert.ErrorIs(t, err, ErrSamePeer)
}

func TestSend_LiveDeliveryToRecipient(t *testing.T) {
	svc, messages, _, notifs, hub := newChatService()

	messages.On("GetConversation", mock.Anything, int64(5)).Return(&domain.Conversation{
		ID: 5, CustomerID: 1, ProviderID: 2,
	}, nil)
	messages.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	hub.On("SendToUser", int64(1), mock.Anything).Return(true) // echo to sender
	hub.On("SendToUser", int64(2), mock.Anything).Return(true) // recipient is connected

	m, err := svc.Send(context.Background(), 1, 5, SendMessageRequest{Body: "hello there"})

	assert.NoError(t, err)
	assert.Equal(t, "hello there", m.Body)
	assert.NotEmpty(t, m.ID)
	// Connected recipient gets the websocket event, no queued alert.
	notifs.AssertNotCalled(t, "NotifyNewMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_OfflineRecipientGetsNotification(t *testing.T) {
	svc, messages, users, notifs, hub := newChatService()

	messages.On("GetConversation", mock.Anything, int64(5)).Return(&domain.Conversation{
		ID: 5, CustomerID: 1, ProviderID: 2,
	}, nil)
	messages.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	hub.On("SendToUser", int64(1), mock.Anything).Return(true)
	hub.On("SendToUser", int64(2), mock.Anything).Return(false)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Maria"}, nil)
	notifs.On("NotifyNewMessage", mock.Anything, int64(2), int64(5), "Maria", "hello there").Return(nil)

	_, err := svc.Send(context.Background(), 1, 5, SendMessageRequest{Body: "hello there"})

	assert.NoError(t, err)
	notifs.AssertExpectations(t)
}

func TestSend_PreviewTruncatesLongBody(t *testing.T) {
	svc, messages, users, notifs, hub := newChatService()

	long := strings.Repeat("a", 120)

	messages.On("GetConversation", mock.Anything, int64(5)).Return(&domain.Conversation{
		ID: 5, CustomerID: 1, ProviderID: 2,
	}, nil)
	messages.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	hub.On("SendToUser", int64(1), mock.Anything).Return(true)
	hub.On("SendToUser", int64(2), mock.Anything).Return(false)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Maria"}, nil)
	notifs.On("NotifyNewMessage", mock.Anything, int64(2), int64(5), "Maria",
		mock.MatchedBy(func(preview string) bool {
			return len([]rune(preview)) == previewLen+1 && strings.HasSuffix(preview, "…")
		})).Return(nil)

	_, err := svc.Send(context.Background(), 1, 5, SendMessageRequest{Body: long})

	assert.NoError(t, err)
	notifs.AssertExpectations(t)
}

func TestSend_PreviewKeepsMultibyteRunesIntact(t *testing.T) {
	svc, messages, users, notifs, hub := newChatService()

	long := strings.Repeat("ж", 120)

	messages.On("GetConversation", mock.Anything, int64(5)).Return(&domain.Conversation{
		ID: 5, CustomerID: 1, ProviderID: 2,
	}, nil)
	messages.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	hub.On("SendToUser", int64(1), mock.Anything).Return(true)
	hub.On("SendToUser", int64(2), mock.Anything).Return(false)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Maria"}, nil)
	notifs.On("NotifyNewMessage", mock.Anything, int64(2), int64(5), "Maria",
		mock.MatchedBy(func(preview string) bool {
			return utf8.ValidString(preview) &&
				len([]rune(preview)) == previewLen+1 &&
				strings.HasSuffix(preview, "…")
		})).Return(nil)

	_, err := svc.Send(context.Background(), 1, 5, SendMessageRequest{Body: long})

	assert.NoError(t, err)
	notifs.AssertExpectations(t)
}

func TestSend_ImageOnlyPreview(t *testing.T) {
	svc, messages, users, notifs, hub := newChatService()

	messages.On("GetConversation", mock.Anything, int64(5)).Return(&domain.Conversation{
		ID: 5, CustomerID: 1, ProviderID: 2,
	}, nil)
	messages.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	hub.On("SendToUser", int64(1), mock.Anything).Return(true)
	hub.On("SendToUser", int64(2), mock.Anything).Return(false)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Maria"}, nil)
	notifs.On("NotifyNewMessage", mock.Anything, int64(2), int64(5), "Maria", "Sent a photo").Return(nil)

	_, err := svc.Send(context.Background(), 1, 5, SendMessageRequest{
		ImageURL: "/static/uploads/pic.jpg",
	})

	assert.NoError(t, err)
	notifs.AssertExpectations(t)
}

func TestSend_EmptyMessageRejected(t *testing.T) {
	svc, messages, _, _, _ := newChatService()

	_, err := svc.Send(context.Background(), 1, 5, SendMessageRequest{Body: "   "})

	assert.ErrorIs(t, err, ErrEmptyMessage)
	messages.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSend_OutsiderRejected(t *testing.T) {
	svc, messages, _, _, _ := newChatService()

	messages.On("GetConversation", mock.Anything, int64(5)).Return(&domain.Conversation{
		ID: 5, CustomerID: 1, ProviderID: 2,
	}, nil)

	_, err := svc.Send(context.Background(), 99, 5, SendMessageRequest{Body: "hi"})

	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestListMessages_UnknownConversation(t *testing.T) {
	svc, messages, _, _, _ := newChatService()

	messages.On("GetConversation", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ListMessages(context.Background(), 1, 404, 50)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkSeen_ParticipantOnly(t *testing.T) {
	svc, messages, _, _, _ := newChatService()

	messages.On("GetConversation", mock.Anything, int64(5)).Return(&domain.Conversation{
		ID: 5, CustomerID: 1, ProviderID: 2,
	}, nil)
	messages.On("MarkSeen", mock.Anything, int64(5), int64(2)).Return(nil)

	assert.NoError(t, svc.MarkSeen(context.Background(), 2, 5))

	err := svc.MarkSeen(context.Background(), 77, 5)
	assert.ErrorIs(t, err, ErrNotParticipant)
}
