package repository

import (
	"context"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) CreateService(ctx context.Context, s *domain.ProviderService) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ProviderRepository) GetService(ctx context.Context, id int64) (*domain.ProviderService, error) {
	var s domain.ProviderService
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ProviderRepository) GetServiceByTask(ctx context.Context, providerID int64, task string) (*domain.ProviderService, error) {
	var s domain.ProviderService
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND task = ?", providerID, task).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ProviderRepository) ListServices(ctx context.Context, providerID int64) ([]domain.ProviderService, error) {
	var out []domain.ProviderService
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *ProviderRepository) UpdateService(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.ProviderService{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *ProviderRepository) DeleteService(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.ProviderService{}, id).Error
}

func (r *ProviderRepository) AddGalleryImage(ctx context.Context, img *domain.GalleryImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *ProviderRepository) ListGallery(ctx context.Context, providerID int64) ([]domain.GalleryImage, error) {
	var out []domain.GalleryImage
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *ProviderRepository) DeleteGalleryImage(ctx context.Context, providerID, imageID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", imageID, providerID).
		Delete(&domain.GalleryImage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetBusinessHours replaces the provider's weekly schedule in one shot.
func (r *ProviderRepository) SetBusinessHours(ctx context.Context, providerID int64, hours []domain.BusinessHours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", providerID).Delete(&domain.BusinessHours{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		return tx.Create(&hours).Error
	})
}

func (r *ProviderRepository) GetBusinessHours(ctx context.Context, providerID int64) ([]domain.BusinessHours, error) {
	var out []domain.BusinessHours
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("weekday ASC").
		Find(&out).Error
	return out, err
}
