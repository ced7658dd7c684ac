package domain

import "time"

// Upload is one file stored on local disk: chat photos, gallery shots,
// avatars and payment receipts all go through the same store.
type Upload struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"index"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"-"`
	FileURL      string    `json:"url"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Upload) TableName() string { return "uploads" }
