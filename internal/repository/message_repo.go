package repository

import (
	"context"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetOrCreateConversation returns the single thread between a customer and a
// provider, creating it on first contact.
func (r *MessageRepository) GetOrCreateConversation(ctx context.Context, customerID, providerID int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND provider_id = ?", customerID, providerID).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	conv = domain.Conversation{CustomerID: customerID, ProviderID: providerID}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepository) GetConversation(ctx context.Context, id int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepository) ListConversations(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("customer_id = ? OR provider_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *MessageRepository) CreateMessage(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MessageRepository) ListMessages(ctx context.Context, conversationID int64, limit int) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []domain.Message
	err := q.Find(&out).Error
	return out, err
}

// MarkSeen flags every message the reader received in this thread. Messages
// are otherwise immutable once written.
func (r *MessageRepository) MarkSeen(ctx context.Context, conversationID, readerID int64) error {
	return r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND seen = ?", conversationID, readerID, false).
		Update("seen", true).Error
}

func (r *MessageRepository) CountUnseen(ctx context.Context, conversationID, readerID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND seen = ?", conversationID, readerID, false).
		Count(&cnt).Error
	return cnt, err
}
