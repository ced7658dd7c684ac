package domain

import (
	"encoding/json"
	"time"
)

// Notification screens: the UI route a notification deep-links into.
// ScreenLogin is special — it is the admin-issued forced sign-out signal
// and is consumed by the dispatcher instead of being surfaced.
const (
	ScreenJobStatus = "JobStatus"
	ScreenMessage   = "Message"
	ScreenMain      = "Main"
	ScreenLogin     = "Login"
)

// Notification is a queued alert addressed to one user. Prompt starts false
// and flips to true exactly once when the alert is dispatched; the record is
// deleted outright once the user focuses the target screen.
type Notification struct {
	ID         int64           `json:"id"`
	ReceiverID int64           `json:"receiver_id" gorm:"index:idx_notifications_receiver"`
	Title      string          `json:"title"`
	Body       string          `json:"body,omitempty" gorm:"type:text"`
	Screen     string          `json:"screen" gorm:"index:idx_notifications_receiver"`
	Params     json.RawMessage `json:"params,omitempty" gorm:"type:jsonb"`
	Prompt     bool            `json:"prompt"`
	SentAt     time.Time       `json:"sent_at" gorm:"index"`
}

func (Notification) TableName() string { return "notifications" }

// SetParams encodes params to JSON.
func (n *Notification) SetParams(params map[string]any) error {
	if params == nil {
		return nil
	}
	b, err := json.Marshal(params)
	if err != nil {
		return err
	}
	n.Params = b
	return nil
}

// GetParams decodes params; an empty map on absent or malformed payload.
func (n *Notification) GetParams() map[string]any {
	out := make(map[string]any)
	if len(n.Params) > 0 {
		_ = json.Unmarshal(n.Params, &out)
	}
	return out
}

// DeviceToken is a registered push target for one user's device.
type DeviceToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id" gorm:"index:idx_device_tokens_user"`
	Token     string    `json:"token" gorm:"uniqueIndex"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

func (DeviceToken) TableName() string { return "device_tokens" }
