package settings

import (
	"context"
	"sync"

	"servicehub/internal/domain"
)

// Loader reads one user's stored settings, creating defaults on first access.
type Loader interface {
	Get(ctx context.Context, userID int64) (*domain.Settings, error)
}

// Cache is the live settings snapshot shared with long-lived consumers (the
// notification dispatcher). Reads always see the latest written preference
// without those consumers re-subscribing; writes go through Put on every
// settings update, and Evict drops the entry on sign-out.
type Cache struct {
	mu     sync.RWMutex
	byUser map[int64]domain.Settings
	repo   Loader
}

func NewCache(repo Loader) *Cache {
	return &Cache{
		byUser: make(map[int64]domain.Settings),
		repo:   repo,
	}
}

// Get reads through to the repository on a cold entry.
func (c *Cache) Get(ctx context.Context, userID int64) (domain.Settings, error) {
	c.mu.RLock()
	s, ok := c.byUser[userID]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	loaded, err := c.repo.Get(ctx, userID)
	if err != nil {
		return domain.Settings{}, err
	}

	c.mu.Lock()
	c.byUser[userID] = *loaded
	c.mu.Unlock()
	return *loaded, nil
}

func (c *Cache) Put(s domain.Settings) {
	c.mu.Lock()
	c.byUser[s.UserID] = s
	c.mu.Unlock()
}

func (c *Cache) Evict(userID int64) {
	c.mu.Lock()
	delete(c.byUser, userID)
	c.mu.Unlock()
}
