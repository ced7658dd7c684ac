package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, status string, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, "customer_id", customerID, status, limit, offset)
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID int64, status string, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, "provider_id", providerID, status, limit, offset)
}

func (r *BookingRepository) list(ctx context.Context, column string, id int64, status string, limit, offset int) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Where(column+" = ?", id)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []domain.Booking
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&bookings).Error
	return bookings, err
}

// CountActive returns how many bookings for this provider+task currently
// hold a capacity slot (Confirmed, On Process, Waiting for Confirmation).
func (r *BookingRepository) CountActive(ctx context.Context, providerID int64, task string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("provider_id = ? AND task = ?", providerID, task).
		Where("status IN ?", []string{
			string(domain.BookingConfirmed),
			string(domain.BookingOnProcess),
			string(domain.BookingWaiting),
		}).
		Count(&cnt).Error
	return cnt, err
}

// UpdateStatusIf applies a transition only when the booking is still in the
// expected status. Zero rows affected means a concurrent transition won.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, id int64, expected, next domain.BookingStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": string(next)}
	for k, v := range extra {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReferenceExists reports whether a payment reference number was already used.
func (r *BookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("reference_number = ?", reference).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *BookingRepository) SetPayment(ctx context.Context, id int64, method, reference, receiptURL string) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_method":    method,
			"reference_number":  reference,
			"receipt_url":       receiptURL,
			"commission_status": string(domain.CommissionUnpaid),
			"updated_at":        time.Now(),
		}).Error
}
