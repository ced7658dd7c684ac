package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&cnt).Error
	return cnt > 0, err
}

// SetPresence is written only for the session owner: online on sign-in and
// socket connect, offline plus last_seen on sign-out and disconnect.
func (r *UserRepository) SetPresence(ctx context.Context, userID int64, online bool) error {
	updates := map[string]any{"is_online": online}
	if !online {
		updates["last_seen"] = time.Now()
	}
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (r *UserRepository) SetBanned(ctx context.Context, userID int64, banned bool) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("banned", banned).Error
}

// BumpTokenVersion revokes every JWT issued for the user so far.
func (r *UserRepository) BumpTokenVersion(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}

func (r *UserRepository) List(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

// AddRating folds a new review into the provider's running aggregates.
func (r *UserRepository) AddRating(ctx context.Context, providerID int64, stars int) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", providerID).
		Updates(map[string]any{
			"ratings_total": gorm.Expr("ratings_total + ?", stars),
			"reviews_count": gorm.Expr("reviews_count + 1"),
		}).Error
}
