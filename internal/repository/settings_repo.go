package repository

import (
	"context"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the user's settings row, creating the all-enabled default on
// first access.
func (r *SettingsRepository) Get(ctx context.Context, userID int64) (*domain.Settings, error) {
	var s domain.Settings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	def := domain.DefaultSettings(userID)
	if err := r.db.WithContext(ctx).Create(def).Error; err != nil {
		return nil, err
	}
	return def, nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *domain.Settings) error {
	return r.db.WithContext(ctx).Model(&domain.Settings{}).
		Where("user_id = ?", s.UserID).
		Updates(map[string]any{
			"bookings":           s.Bookings,
			"messages":           s.Messages,
			"show_online_status": s.ShowOnlineStatus,
			"show_location":      s.ShowLocation,
		}).Error
}
