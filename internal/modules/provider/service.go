package provider

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

type Service struct {
	providers *repository.ProviderRepository
	users     *repository.UserRepository
}

func NewService(providers *repository.ProviderRepository, users *repository.UserRepository) *Service {
	return &Service{providers: providers, users: users}
}

func (s *Service) CreateService(ctx context.Context, providerID int64, req ServiceRequest) (*domain.ProviderService, error) {
	listing := &domain.ProviderService{
		ProviderID:  providerID,
		Task:        req.Task,
		Description: req.Description,
		Price:       req.Price,
		Personels:   req.Personels,
	}
	if err := s.providers.CreateService(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *Service) UpdateService(ctx context.Context, providerID, serviceID int64, req ServiceRequest) (*domain.ProviderService, error) {
	listing, err := s.ownListing(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}

	err = s.providers.UpdateService(ctx, listing.ID, map[string]any{
		"task":        req.Task,
		"description": req.Description,
		"price":       req.Price,
		"personels":   req.Personels,
	})
	if err != nil {
		return nil, err
	}
	return s.providers.GetService(ctx, listing.ID)
}

func (s *Service) DeleteService(ctx context.Context, providerID, serviceID int64) error {
	listing, err := s.ownListing(ctx, providerID, serviceID)
	if err != nil {
		return err
	}
	return s.providers.DeleteService(ctx, listing.ID)
}

func (s *Service) ListServices(ctx context.Context, providerID int64) ([]domain.ProviderService, error) {
	return s.providers.ListServices(ctx, providerID)
}

func (s *Service) AddGalleryImage(ctx context.Context, providerID int64, url string) (*domain.GalleryImage, error) {
	img := &domain.GalleryImage{ProviderID: providerID, URL: url}
	if err := s.providers.AddGalleryImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Service) DeleteGalleryImage(ctx context.Context, providerID, imageID int64) error {
	err := s.providers.DeleteGalleryImage(ctx, providerID, imageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// SetBusinessHours replaces the weekly schedule wholesale.
func (s *Service) SetBusinessHours(ctx context.Context, providerID int64, req HoursRequest) ([]domain.BusinessHours, error) {
	seen := make(map[int]bool, len(req.Hours))
	hours := make([]domain.BusinessHours, 0, len(req.Hours))
	for _, h := range req.Hours {
		if seen[h.Weekday] {
			return nil, ErrValidation
		}
		seen[h.Weekday] = true
		hours = append(hours, domain.BusinessHours{
			ProviderID: providerID,
			Weekday:    h.Weekday,
			Open:       h.Open,
			Close:      h.Close,
			Closed:     h.Closed,
		})
	}

	if err := s.providers.SetBusinessHours(ctx, providerID, hours); err != nil {
		return nil, err
	}
	return s.providers.GetBusinessHours(ctx, providerID)
}

// Shop assembles the public provider profile a customer browses.
func (s *Service) Shop(ctx context.Context, providerID int64) (*ShopView, error) {
	user, err := s.users.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !user.IsProvider() {
		return nil, ErrNotFound
	}
	user.PasswordHash = ""

	services, err := s.providers.ListServices(ctx, providerID)
	if err != nil {
		return nil, err
	}
	gallery, err := s.providers.ListGallery(ctx, providerID)
	if err != nil {
		return nil, err
	}
	hours, err := s.providers.GetBusinessHours(ctx, providerID)
	if err != nil {
		return nil, err
	}

	var avg float64
	if user.ReviewsCount > 0 {
		avg = user.RatingsTotal / float64(user.ReviewsCount)
	}

	return &ShopView{
		Provider:      user,
		Services:      services,
		Gallery:       gallery,
		BusinessHours: hours,
		AverageRating: avg,
		ReviewsCount:  user.ReviewsCount,
	}, nil
}

func (s *Service) ownListing(ctx context.Context, providerID, serviceID int64) (*domain.ProviderService, error) {
	listing, err := s.providers.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.ProviderID != providerID {
		return nil, ErrForbidden
	}
	return listing, nil
}
