package provider

import "servicehub/internal/domain"

type ServiceRequest struct {
	Task        string  `json:"task" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Personels   int     `json:"personels" binding:"required,gte=1"`
}

type HoursRequest struct {
	Hours []HoursDay `json:"hours" binding:"required,dive"`
}

type HoursDay struct {
	Weekday int    `json:"weekday" binding:"gte=0,lte=6"`
	Open    string `json:"open"`
	Close   string `json:"close"`
	Closed  bool   `json:"closed"`
}

type GalleryRequest struct {
	URL string `json:"url" binding:"required"`
}

// ShopView is the public profile a customer sees before booking.
type ShopView struct {
	Provider      *domain.User             `json:"provider"`
	Services      []domain.ProviderService `json:"services"`
	Gallery       []domain.GalleryImage    `json:"gallery"`
	BusinessHours []domain.BusinessHours   `json:"business_hours"`
	AverageRating float64                  `json:"average_rating"`
	ReviewsCount  int64                    `json:"reviews_count"`
}
