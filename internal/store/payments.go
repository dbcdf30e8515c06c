package store

import (
	"context"
	"fmt"
	"time"

	"github.com/router-for-me/WiFiVoucher/internal/analytics"
	"github.com/router-for-me/WiFiVoucher/internal/models"
)

// RecentTransactionLimit caps the admin transactions listing.
const RecentTransactionLimit = 20

// NewPayment holds the fields recorded for a checkout attempt.
type NewPayment struct {
	UserID        string
	VoucherID     *string
	Amount        float64
	Currency      string
	Method        string
	PhoneNumber   string
	TransactionID string
	Reference     string
	Status        string
}

// RecordPayment inserts a payment row.
func (s *Store) RecordPayment(ctx context.Context, in NewPayment) (*models.Payment, error) {
	if !s.ready() {
		return nil, ErrNotInitialized
	}
	status := in.Status
	if status == "" {
		status = models.PaymentStatusPending
	}
	currency := in.Currency
	if currency == "" {
		currency = "TZS"
	}
	payment := models.Payment{
		UserID:        in.UserID,
		VoucherID:     in.VoucherID,
		Amount:        in.Amount,
		Currency:      currency,
		PaymentMethod: in.Method,
		PhoneNumber:   in.PhoneNumber,
		TransactionID: in.TransactionID,
		Reference:     in.Reference,
		Status:        status,
		CreatedAt:     s.now().UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&payment).Error; errCreate != nil {
		return nil, fmt.Errorf("store: record payment: %w", errCreate)
	}
	return &payment, nil
}

// ListRecentTransactions returns the latest completed payments with payer and plan names.
func (s *Store) ListRecentTransactions(ctx context.Context) []analytics.TransactionView {
	if !s.ready() {
		return nil
	}
	var rows []models.Payment
	if errFind := s.read(ctx).
		Where("status = ?", models.PaymentStatusCompleted).
		Order("created_at DESC").
		Limit(RecentTransactionLimit).
		Find(&rows).Error; errFind != nil {
		logReadError("list recent transactions", errFind)
		return nil
	}
	userIDs := make([]string, 0, len(rows))
	voucherIDs := make([]string, 0, len(rows))
	for _, p := range rows {
		userIDs = append(userIDs, p.UserID)
		if p.VoucherID != nil {
			voucherIDs = append(voucherIDs, *p.VoucherID)
		}
	}
	vouchers := s.vouchersByID(ctx, voucherIDs)
	planIDs := make([]string, 0, len(vouchers))
	for _, v := range vouchers {
		planIDs = append(planIDs, v.PlanID)
	}
	return analytics.DenormalizeTransactions(rows, s.usersByID(ctx, userIDs), vouchers, s.plansByID(ctx, planIDs))
}

// completedPayments loads completed payments created in [from, to). A zero
// to leaves the window open-ended.
func (s *Store) completedPayments(ctx context.Context, op string, from, to time.Time) []analytics.PaymentRow {
	q := s.read(ctx).Model(&models.Payment{}).
		Select("amount", "payment_method", "status", "created_at").
		Where("status = ?", models.PaymentStatusCompleted)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to.UTC())
	}
	var rows []models.Payment
	if errFind := q.Find(&rows).Error; errFind != nil {
		logReadError(op, errFind)
		return nil
	}
	out := make([]analytics.PaymentRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, analytics.PaymentRow{
			Amount:    p.Amount,
			Method:    p.PaymentMethod,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}
