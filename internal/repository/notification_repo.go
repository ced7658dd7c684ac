package repository

import (
	"context"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByReceiver(ctx context.Context, receiverID int64, limit int) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("sent_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []domain.Notification
	err := q.Find(&out).Error
	return out, err
}

// ListUnprompted returns the receiver's not-yet-surfaced alerts, newest first.
// This is the dispatcher's re-delivery source when a user connects.
func (r *NotificationRepository) ListUnprompted(ctx context.Context, receiverID int64) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND prompt = ?", receiverID, false).
		Order("sent_at DESC").
		Find(&out).Error
	return out, err
}

// MarkPrompted flips prompt to true at most once: a second call for the same
// id matches zero rows and reports false.
func (r *NotificationRepository) MarkPrompted(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND prompt = ?", id, false).
		Update("prompt", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Notification{}, id).Error
}

// DeleteByReceiverScreen is the "mark all as seen" sweep: alerts destined for
// a screen are discarded once the user focuses it.
func (r *NotificationRepository) DeleteByReceiverScreen(ctx context.Context, receiverID int64, screen string) error {
	return r.db.WithContext(ctx).
		Where("receiver_id = ? AND screen = ?", receiverID, screen).
		Delete(&domain.Notification{}).Error
}

func (r *NotificationRepository) CountByReceiver(ctx context.Context, receiverID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("receiver_id = ?", receiverID).
		Count(&cnt).Error
	return cnt, err
}

func (r *NotificationRepository) RegisterDeviceToken(ctx context.Context, t *domain.DeviceToken) error {
	// Same token re-registered (app reinstall, user switch) moves to the new user.
	var existing domain.DeviceToken
	err := r.db.WithContext(ctx).Where("token = ?", t.Token).First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).Model(&domain.DeviceToken{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{"user_id": t.UserID, "platform": t.Platform}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *NotificationRepository) DeviceTokensForUser(ctx context.Context, userID int64) ([]domain.DeviceToken, error) {
	var out []domain.DeviceToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error
	return out, err
}
