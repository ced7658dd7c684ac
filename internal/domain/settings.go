package domain

import "time"

// Settings holds one user's notification and privacy preferences.
// All flags default to true for a fresh account.
type Settings struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id" gorm:"uniqueIndex"`
	Bookings         bool      `json:"bookings"`
	Messages         bool      `json:"messages"`
	ShowOnlineStatus bool      `json:"show_online_status"`
	ShowLocation     bool      `json:"show_location"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Settings) TableName() string { return "settings" }

// DefaultSettings returns the all-enabled snapshot for a new user.
func DefaultSettings(userID int64) *Settings {
	return &Settings{
		UserID:           userID,
		Bookings:         true,
		Messages:         true,
		ShowOnlineStatus: true,
		ShowLocation:     true,
	}
}

// AllowsScreen maps a notification screen to the preference that gates it:
// booking-related screens ride the bookings flag, chat rides messages.
func (s *Settings) AllowsScreen(screen string) bool {
	switch screen {
	case ScreenMessage:
		return s.Messages
	case ScreenJobStatus, ScreenMain:
		return s.Bookings
	default:
		return true
	}
}
