package review

type CreateReviewRequest struct {
	BookingID int64  `json:"booking_id" binding:"required"`
	Stars     int    `json:"stars" binding:"required,gte=1,lte=5"`
	Review    string `json:"review"`
}
