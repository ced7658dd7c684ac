package domain

import "time"

// ProviderService is one catalog entry a provider offers. Personels caps how
// many bookings for this exact provider+task may be active at once.
type ProviderService struct {
	ID          int64     `json:"id"`
	ProviderID  int64     `json:"provider_id" gorm:"index;uniqueIndex:idx_provider_services_task"`
	Task        string    `json:"task" validate:"required" gorm:"uniqueIndex:idx_provider_services_task"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Price       float64   `json:"price" validate:"gte=0"`
	Personels   int       `json:"personels" validate:"gte=1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProviderService) TableName() string { return "provider_services" }

// GalleryImage is one photo in a provider's shop gallery.
type GalleryImage struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"provider_id" gorm:"index"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}

func (GalleryImage) TableName() string { return "gallery_images" }

// BusinessHours is a provider's weekly open/close schedule, one row per weekday.
type BusinessHours struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"provider_id" gorm:"uniqueIndex:idx_business_hours_day"`
	Weekday    int    `json:"weekday" validate:"gte=0,lte=6" gorm:"uniqueIndex:idx_business_hours_day"`
	Open       string `json:"open,omitempty"`
	Close      string `json:"close,omitempty"`
	Closed     bool   `json:"closed"`
}

func (BusinessHours) TableName() string { return "business_hours" }

// Rating is one customer review of a completed booking, one per booking.
type Rating struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id" gorm:"uniqueIndex"`
	ProviderID int64     `json:"provider_id" gorm:"index"`
	CustomerID int64     `json:"customer_id"`
	Stars      int       `json:"stars" validate:"gte=1,lte=5"`
	Review     string    `json:"review,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`

	Customer *User `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (Rating) TableName() string { return "ratings" }
