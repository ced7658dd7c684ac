package repository

import (
	"context"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(ctx context.Context, u *domain.Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UploadRepository) GetByID(ctx context.Context, id string) (*domain.Upload, error) {
	var u domain.Upload
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UploadRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Upload{}, "id = ?", id).Error
}

func (r *UploadRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Upload, error) {
	var out []domain.Upload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
