package admin

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetBanned(ctx context.Context, userID int64, banned bool) error
	BumpTokenVersion(ctx context.Context, userID int64) error
	List(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error)
}

type Notifier interface {
	NotifyAccountBanned(ctx context.Context, userID int64, reason string) error
}

type Service struct {
	users  UserStore
	notifs Notifier
	log    *zap.Logger
}

func NewService(users UserStore, notifs Notifier, log *zap.Logger) *Service {
	return &Service{users: users, notifs: notifs, log: log}
}

func (s *Service) ListUsers(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := s.users.List(ctx, role, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

// Ban flags the account and forces an immediate sign-out on any live session.
func (s *Service) Ban(ctx context.Context, adminID, userID int64, reason string) error {
	if adminID == userID {
		return ErrSelfBan
	}

	target, err := s.lookup(ctx, userID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleAdmin {
		return ErrAdminTarget
	}

	if err := s.users.SetBanned(ctx, userID, true); err != nil {
		return err
	}
	// Outstanding JWTs keep working until their version stops matching.
	if err := s.users.BumpTokenVersion(ctx, userID); err != nil {
		return err
	}
	if err := s.notifs.NotifyAccountBanned(ctx, userID, reason); err != nil {
		s.log.Warn("ban sign-out dispatch failed", zap.Error(err), zap.Int64("user_id", userID))
	}
	return nil
}

func (s *Service) Unban(ctx context.Context, userID int64) error {
	if _, err := s.lookup(ctx, userID); err != nil {
		return err
	}
	return s.users.SetBanned(ctx, userID, false)
}

func (s *Service) lookup(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
