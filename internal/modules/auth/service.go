package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type jwtService interface {
	GenerateToken(userID int64, role string, tokenVersion int) (string, error)
}

// UserStore is the account persistence surface.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SetPresence(ctx context.Context, userID int64, online bool) error
	UpdateProfile(ctx context.Context, userID int64, updates map[string]any) error
}

// SettingsEvictor drops the cached settings snapshot when a session ends.
type SettingsEvictor interface {
	Evict(userID int64)
}

type Service struct {
	users    UserStore
	jwt      jwtService
	settings SettingsEvictor
	log      *zap.Logger
}

func NewService(users UserStore, jwt jwtService, settings SettingsEvictor, log *zap.Logger) *Service {
	return &Service{
		users:    users,
		jwt:      jwt,
		settings: settings,
		log:      log,
	}
}

// Register creates a customer or provider account. Role is fixed at creation
// and never changes afterwards.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         domain.UserRole(req.Role),
		Active:       true,
	}
	if user.Role == domain.RoleProvider {
		user.Service = req.Service
		user.Description = req.Description
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials, maps account-state errors to specific messages
// and flips the presence flag on success.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Banned {
		return nil, ErrUserBanned
	}
	if !user.Active {
		return nil, ErrUserInactive
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetPresence(ctx, user.ID, true); err != nil {
		s.log.Warn("setting presence on login failed", zap.Error(err), zap.Int64("user_id", user.ID))
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

// Logout flips the presence flag server-side and resets the in-memory
// session state (the cached settings snapshot).
func (s *Service) Logout(ctx context.Context, userID int64) error {
	if err := s.users.SetPresence(ctx, userID, false); err != nil {
		return err
	}
	s.settings.Evict(userID)
	return nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile writes the owner's mutable profile fields. Role, email and
// moderation flags are not reachable from here.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, updates map[string]any) (*domain.User, error) {
	allowed := map[string]bool{
		"name": true, "phone": true, "address": true, "avatar_url": true,
		"service": true, "description": true,
	}
	filtered := make(map[string]any, len(updates))
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, ErrValidation
	}

	if err := s.users.UpdateProfile(ctx, userID, filtered); err != nil {
		return nil, err
	}
	return s.Me(ctx, userID)
}
