package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingDeclined  BookingStatus = "Declined"
	BookingOnProcess BookingStatus = "On Process"
	BookingWaiting   BookingStatus = "Waiting for Confirmation"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Terminal reports whether no further transition is defined from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingDeclined || s == BookingCancelled || s == BookingCompleted
}

// Active reports whether s counts against a service listing's capacity.
// Pending requests do not hold a slot until the provider confirms.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingOnProcess || s == BookingWaiting
}

type CommissionStatus string

const (
	CommissionUnpaid CommissionStatus = "unpaid"
	CommissionPaid   CommissionStatus = "paid"
)

// Booking is one requested service engagement between a customer and a
// provider. CustomerID and ProviderID never change after creation; every
// status transition sets the status and its timestamp in one update.
type Booking struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customer_id" validate:"required"`
	ProviderID int64 `json:"provider_id" validate:"required"`

	Service string  `json:"service"`
	Task    string  `json:"task" validate:"required"`
	Price   float64 `json:"price" validate:"gte=0"`
	Date    string  `json:"date"`
	Time    string  `json:"time"`
	Address string  `json:"address"`

	Status BookingStatus `json:"status"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	DeclinedAt  *time.Time `json:"declined_at,omitempty"`
	ProgressAt  *time.Time `json:"progress_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DoneAt      *time.Time `json:"done_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	DeclineReason string `json:"decline_reason,omitempty" gorm:"type:text"`
	CancelReason  string `json:"cancel_reason,omitempty" gorm:"type:text"`

	PaymentMethod       string           `json:"payment_method,omitempty"`
	ReferenceNumber     string           `json:"reference_number,omitempty" gorm:"uniqueIndex:idx_bookings_reference,where:reference_number <> ''"`
	ReceiptURL          string           `json:"receipt_url,omitempty"`
	CommissionStatus    CommissionStatus `json:"commission_status,omitempty"`
	CommissionReference string           `json:"commission_reference,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer *User `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Provider *User `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
}

// Party reports whether userID is the booking's customer or provider.
func (b *Booking) Party(userID int64) bool {
	return b.CustomerID == userID || b.ProviderID == userID
}

// Counterpart returns the other side of the booking relative to userID.
func (b *Booking) Counterpart(userID int64) int64 {
	if userID == b.CustomerID {
		return b.ProviderID
	}
	return b.CustomerID
}
