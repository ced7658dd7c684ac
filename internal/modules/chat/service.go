package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub/internal/domain"
	"servicehub/internal/modules/realtime"
)

const previewLen = 80

type Service struct {
	messages MessageStore
	users    UserStore
	notifs   Notifier
	hub      Pusher
	log      *zap.Logger
}

func NewService(messages MessageStore, users UserStore, notifs Notifier, hub Pusher, log *zap.Logger) *Service {
	return &Service{
		messages: messages,
		users:    users,
		notifs:   notifs,
		hub:      hub,
		log:      log,
	}
}

// Open returns the single thread between the caller and a peer, creating it
// on first contact. The customer side is always stored first.
func (s *Service) Open(ctx context.Context, callerID, peerID int64) (*domain.Conversation, error) {
	if callerID == peerID {
		return nil, ErrSamePeer
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	peer, err := s.users.GetByID(ctx, peerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	customerID, providerID := callerID, peerID
	if caller.IsProvider() && peer.IsCustomer() {
		customerID, providerID = peerID, callerID
	}

	return s.messages.GetOrCreateConversation(ctx, customerID, providerID)
}

func (s *Service) ListConversations(ctx context.Context, userID int64) ([]ConversationView, error) {
	convs, err := s.messages.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationView, 0, len(convs))
	for i := range convs {
		unread, err := s.messages.CountUnseen(ctx, convs[i].ID, userID)
		if err != nil {
			unread = 0
		}
		out = append(out, ConversationView{Conversation: &convs[i], UnreadCount: unread})
	}
	return out, nil
}

// Send writes one immutable message, delivers it live to the recipient if
// connected, and otherwise enqueues a preference-gated notification.
func (s *Service) Send(ctx context.Context, senderID, conversationID int64, req SendMessageRequest) (*domain.Message, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" && req.ImageURL == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.conversation(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	m := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
		ImageURL:       req.ImageURL,
		SentAt:         time.Now(),
	}
	if err := s.messages.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	recipientID := conv.Recipient(senderID)
	event := &realtime.Event{Type: realtime.EventNewMessage, Payload: m}

	s.hub.SendToUser(senderID, event) // echo back as delivery confirmation
	if delivered := s.hub.SendToUser(recipientID, event); !delivered {
		sender, err := s.users.GetByID(ctx, senderID)
		senderName := "New message"
		if err == nil {
			senderName = sender.Name
		}
		if err := s.notifs.NotifyNewMessage(ctx, recipientID, conv.ID, senderName, preview(m)); err != nil {
			s.log.Warn("message notification failed", zap.Error(err), zap.String("message_id", m.ID))
		}
	}

	return m, nil
}

func (s *Service) ListMessages(ctx context.Context, userID, conversationID int64, limit int) ([]domain.Message, error) {
	if _, err := s.conversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.messages.ListMessages(ctx, conversationID, limit)
}

// MarkSeen flags every message addressed to the reader in this thread.
func (s *Service) MarkSeen(ctx context.Context, userID, conversationID int64) error {
	if _, err := s.conversation(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.messages.MarkSeen(ctx, conversationID, userID)
}

func (s *Service) conversation(ctx context.Context, conversationID, userID int64) (*domain.Conversation, error) {
	conv, err := s.messages.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !conv.Participant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

func preview(m *domain.Message) string {
	if m.Body == "" {
		return "Sent a photo"
	}
	// Truncate on rune boundaries; a byte slice can cut a multibyte
	// character in half and produce an invalid UTF-8 preview.
	runes := []rune(m.Body)
	if len(runes) <= previewLen {
		return m.Body
	}
	return string(runes[:previewLen]) + "…"
}
