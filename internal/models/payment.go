package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment status values.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodMpesa = "mpesa"
	PaymentMethodCard  = "card"
)

// Payment records a voucher purchase transaction.
type Payment struct {
	ID string `gorm:"type:uuid;primaryKey"` // Primary key.

	UserID    string  `gorm:"type:uuid;not null;index"` // Paying user.
	VoucherID *string `gorm:"type:uuid;index"`          // Issued voucher, nil when the payment failed.

	Amount        float64 `gorm:"type:decimal(12,2);not null;default:0"` // Charged amount.
	Currency      string  `gorm:"type:varchar(8);not null;default:'TZS'"`
	PaymentMethod string  `gorm:"type:varchar(16);not null;index"` // mpesa or card.
	PhoneNumber   string  `gorm:"type:varchar(32)"`                // M-Pesa payer number.
	TransactionID string  `gorm:"type:varchar(64);index"`          // Gateway transaction reference.
	Reference     string  `gorm:"type:varchar(64)"`                // Merchant reference sent to the gateway.

	Status string `gorm:"type:varchar(16);not null;default:'pending';index"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"`
}

// BeforeCreate assigns the primary key.
func (p *Payment) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
