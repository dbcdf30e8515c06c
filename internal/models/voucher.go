package models

import (
	"time"

	"gorm.io/gorm"
)

// Voucher status values. Transitions past unused are applied by the
// external metering process.
const (
	VoucherStatusUnused    = "unused"
	VoucherStatusActive    = "active"
	VoucherStatusExpired   = "expired"
	VoucherStatusExhausted = "exhausted"
	VoucherStatusSuspended = "suspended"
)

// Voucher is a purchased access grant issued to one user against one plan.
type Voucher struct {
	ID string `gorm:"type:uuid;primaryKey"` // Primary key.

	Code string `gorm:"type:varchar(32);not null;uniqueIndex"` // Redemption code.

	PlanID string       `gorm:"type:uuid;not null;index"` // Related plan ID.
	Plan   *VoucherPlan `gorm:"foreignKey:PlanID"`        // Related plan.

	UserID string `gorm:"type:uuid;not null;index"` // Owner ID.
	User   *User  `gorm:"foreignKey:UserID"`        // Owner.

	Status     string     `gorm:"type:varchar(16);not null;default:'unused';index"` // Lifecycle status.
	DataUsedMB float64    `gorm:"type:decimal(14,2);not null;default:0"`            // Consumed data.
	ExpiresAt  *time.Time `gorm:"index"`                                            // Expiry, nil until activation or when unlimited.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Purchase timestamp.
}

// BeforeCreate assigns the primary key.
func (v *Voucher) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
