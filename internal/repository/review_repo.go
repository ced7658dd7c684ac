package repository

import (
	"context"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rating *domain.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Where("booking_id = ?", bookingID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *ReviewRepository) ListByProvider(ctx context.Context, providerID int64, limit, offset int) ([]domain.Rating, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Where("provider_id = ?", providerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Rating
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, err
}
