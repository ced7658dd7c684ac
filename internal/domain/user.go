package domain

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleProvider UserRole = "provider"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email" validate:"required,email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	Name         string   `json:"name"`
	Phone        string   `json:"phone,omitempty"`
	Address      string   `json:"address,omitempty"`
	AvatarURL    string   `json:"avatar_url,omitempty"`

	// Presence. Written only by the owning session (login/logout and the
	// websocket hub), read by anyone building a shop or chat view.
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`

	// Moderation flags, writable by admins only.
	Active bool `json:"active"`
	Banned bool `json:"banned"`

	// Bumped on ban so every outstanding JWT stops authorizing.
	TokenVersion int `json:"-"`

	// Provider-only aggregates.
	Verified     bool    `json:"verified,omitempty"`
	Service      string  `json:"service,omitempty"`
	Description  string  `json:"description,omitempty" gorm:"type:text"`
	RatingsTotal float64 `json:"ratings_total,omitempty"`
	ReviewsCount int64   `json:"reviews_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsProvider() bool { return u.Role == RoleProvider }
func (u *User) IsCustomer() bool { return u.Role == RoleCustomer }
