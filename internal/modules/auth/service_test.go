package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) SetPresence(ctx context.Context, userID int64, online bool) error {
	args := m.Called(ctx, userID, online)
	return args.Error(0)
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, userID int64, updates map[string]any) error {
	args := m.Called(ctx, userID, updates)
	return args.Error(0)
}

type mockJWT struct {
	mock.Mock
}

func (m *mockJWT) GenerateToken(userID int64, role string, tokenVersion int) (string, error) {
	args := m.Called(userID, role, tokenVersion)
	return args.String(0), args.Error(1)
}

type mockEvictor struct {
	mock.Mock
}

func (m *mockEvictor) Evict(userID int64) {
	m.Called(userID)
}

func hashOf(pw string) string {
	h, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	return string(h)
}

func TestRegister_Success(t *testing.T) {
	users := new(mockUserStore)
	users.On("EmailExists", mock.Anything, "new@test.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(users, new(mockJWT), new(mockEvictor), zap.NewNop())

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "new@test.com",
		Password: "secret123",
		Name:     "New User",
		Role:     "customer",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.True(t, user.Active)
	assert.Empty(t, user.PasswordHash)
}

func TestRegister_EmailTaken(t *testing.T) {
	users := new(mockUserStore)
	users.On("EmailExists", mock.Anything, "taken@test.com").Return(true, nil)

	svc := NewService(users, new(mockJWT), new(mockEvictor), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@test.com",
		Password: "secret123",
		Role:     "provider",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "maria@test.com").Return(&domain.User{
		ID:           7,
		Email:        "maria@test.com",
		PasswordHash: hashOf("secret123"),
		Role:         domain.RoleCustomer,
		Active:       true,
		TokenVersion: 3,
	}, nil)
	users.On("SetPresence", mock.Anything, int64(7), true).Return(nil)

	// The issued token must carry the account's current version, otherwise
	// the middleware rejects it on the first request.
	jwt := new(mockJWT)
	jwt.On("GenerateToken", int64(7), "customer", 3).Return("token-abc", nil)

	svc := NewService(users, jwt, new(mockEvictor), zap.NewNop())

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maria@test.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token-abc", result.AccessToken)
	assert.Empty(t, result.User.PasswordHash)
	users.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "maria@test.com").Return(&domain.User{
		ID:           7,
		PasswordHash: hashOf("secret123"),
		Active:       true,
	}, nil)

	svc := NewService(users, new(mockJWT), new(mockEvictor), zap.NewNop())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maria@test.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(users, new(mockJWT), new(mockEvictor), zap.NewNop())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@test.com",
		Password: "whatever",
	})

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BannedAccount(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "banned@test.com").Return(&domain.User{
		ID:           8,
		PasswordHash: hashOf("secret123"),
		Active:       true,
		Banned:       true,
	}, nil)

	svc := NewService(users, new(mockJWT), new(mockEvictor), zap.NewNop())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "banned@test.com",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestLogout_EvictsSettingsSnapshot(t *testing.T) {
	users := new(mockUserStore)
	users.On("SetPresence", mock.Anything, int64(7), false).Return(nil)

	evictor := new(mockEvictor)
	evictor.On("Evict", int64(7)).Return()

	svc := NewService(users, new(mockJWT), evictor, zap.NewNop())

	assert.NoError(t, svc.Logout(context.Background(), 7))
	evictor.AssertExpectations(t)
}

func TestUpdateProfile_FiltersProtectedFields(t *testing.T) {
	users := new(mockUserStore)
	users.On("UpdateProfile", mock.Anything, int64(7), map[string]any{
		"name": "Renamed",
	}).Return(nil)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Name: "Renamed"}, nil)

	svc := NewService(users, new(mockJWT), new(mockEvictor), zap.NewNop())

	user, err := svc.UpdateProfile(context.Background(), 7, map[string]any{
		"name":   "Renamed",
		"role":   "admin", // must be dropped
		"banned": false,   // must be dropped
	})

	assert.NoError(t, err)
	assert.Equal(t, "Renamed", user.Name)
	users.AssertExpectations(t)
}

func TestUpdateProfile_NothingAllowed(t *testing.T) {
	users := new(mockUserStore)
	svc := NewService(users, new(mockJWT), new(mockEvictor), zap.NewNop())

	_, err := svc.UpdateProfile(context.Background(), 7, map[string]any{
		"role": "admin",
	})

	assert.ErrorIs(t, err, ErrValidation)
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}
