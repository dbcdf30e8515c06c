package models

import (
	"time"

	"gorm.io/gorm"
)

// VoucherPlan is a priced template defining a voucher's limits.
type VoucherPlan struct {
	ID string `gorm:"type:uuid;primaryKey"` // Primary key.

	Name        string `gorm:"type:varchar(255);not null"` // Plan name.
	Description string `gorm:"type:text"`                  // Marketing description.

	DataLimitMB    *int `gorm:"type:integer"` // Data ceiling in MB, nil means unlimited.
	TimeLimitHours *int `gorm:"type:integer"` // Validity in hours, nil means no expiry.

	Price    float64 `gorm:"type:decimal(12,2);not null;default:0"` // Price in TZS.
	IsActive bool    `gorm:"not null;index"`                       // Whether the plan is offered.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}

// BeforeCreate assigns the primary key.
func (p *VoucherPlan) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
