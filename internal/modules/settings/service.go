package settings

import (
	"context"

	"servicehub/internal/domain"
)

// Store persists settings updates.
type Store interface {
	Update(ctx context.Context, s *domain.Settings) error
}

type Service struct {
	repo  Store
	cache *Cache
}

func NewService(repo Store, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) Get(ctx context.Context, userID int64) (domain.Settings, error) {
	return s.cache.Get(ctx, userID)
}

// Update writes the owner's settings and refreshes the shared snapshot so
// active subscriptions pick up the new preference immediately.
func (s *Service) Update(ctx context.Context, userID int64, upd UpdateSettingsRequest) (domain.Settings, error) {
	current, err := s.cache.Get(ctx, userID)
	if err != nil {
		return domain.Settings{}, err
	}

	if upd.Bookings != nil {
		current.Bookings = *upd.Bookings
	}
	if upd.Messages != nil {
		current.Messages = *upd.Messages
	}
	if upd.ShowOnlineStatus != nil {
		current.ShowOnlineStatus = *upd.ShowOnlineStatus
	}
	if upd.ShowLocation != nil {
		current.ShowLocation = *upd.ShowLocation
	}

	if err := s.repo.Update(ctx, &current); err != nil {
		return domain.Settings{}, err
	}

	s.cache.Put(current)
	return current, nil
}
