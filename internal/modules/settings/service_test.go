package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"servicehub/internal/domain"
)

type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) Get(ctx context.Context, userID int64) (*domain.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *mockSettingsRepo) Update(ctx context.Context, s *domain.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func TestCache_ReadThroughOnce(t *testing.T) {
	repo := new(mockSettingsRepo)
	repo.On("Get", mock.Anything, int64(1)).Return(domain.DefaultSettings(1), nil).Once()

	cache := NewCache(repo)

	first, err := cache.Get(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, first.Bookings)

	// Second read is served from the snapshot, no repo call.
	second, err := cache.Get(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "Get", 1)
}

func TestCache_EvictForcesReload(t *testing.T) {
	repo := new(mockSettingsRepo)
	repo.On("Get", mock.Anything, int64(1)).Return(domain.DefaultSettings(1), nil).Twice()

	cache := NewCache(repo)

	_, _ = cache.Get(context.Background(), 1)
	cache.Evict(1)
	_, _ = cache.Get(context.Background(), 1)

	repo.AssertNumberOfCalls(t, "Get", 2)
}

func TestUpdate_PartialAndVisibleToLiveReaders(t *testing.T) {
	repo := new(mockSettingsRepo)
	repo.On("Get", mock.Anything, int64(1)).Return(domain.DefaultSettings(1), nil).Once()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Settings) bool {
		return !s.Bookings && s.Messages
	})).Return(nil)

	cache := NewCache(repo)
	svc := NewService(repo, cache)

	off := false
	updated, err := svc.Update(context.Background(), 1, UpdateSettingsRequest{Bookings: &off})

	assert.NoError(t, err)
	assert.False(t, updated.Bookings)
	assert.True(t, updated.Messages) // untouched flags survive

	// A long-lived reader of the cache sees the new preference immediately.
	live, err := cache.Get(context.Background(), 1)
	assert.NoError(t, err)
	assert.False(t, live.Bookings)
}

func TestUpdate_NoFieldsIsNoOpWrite(t *testing.T) {
	repo := new(mockSettingsRepo)
	repo.On("Get", mock.Anything, int64(1)).Return(domain.DefaultSettings(1), nil).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	cache := NewCache(repo)
	svc := NewService(repo, cache)

	updated, err := svc.Update(context.Background(), 1, UpdateSettingsRequest{})

	assert.NoError(t, err)
	assert.Equal(t, *domain.DefaultSettings(1), domain.Settings{
		UserID:           updated.UserID,
		Bookings:         updated.Bookings,
		Messages:         updated.Messages,
		ShowOnlineStatus: updated.ShowOnlineStatus,
		ShowLocation:     updated.ShowLocation,
	})
}

func TestAllowsScreen_Mapping(t *testing.T) {
	s := domain.Settings{Bookings: false, Messages: true}

	assert.False(t, s.AllowsScreen(domain.ScreenJobStatus))
	assert.False(t, s.AllowsScreen(domain.ScreenMain))
	assert.True(t, s.AllowsScreen(domain.ScreenMessage))
	assert.True(t, s.AllowsScreen(domain.ScreenLogin)) // ban signal is never gated
}
