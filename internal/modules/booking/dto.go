package booking

type CreateBookingRequest struct {
	ProviderID int64  `json:"provider_id" binding:"required"`
	Task       string `json:"task" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Address    string `json:"address" binding:"required"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type PaymentRequest struct {
	PaymentMethod   string `json:"payment_method" binding:"required"`
	ReferenceNumber string `json:"reference_number" binding:"required"`
	ReceiptURL      string `json:"receipt_url"`
}
