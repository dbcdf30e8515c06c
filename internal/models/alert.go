package models

import (
	"time"

	"gorm.io/gorm"
)

// SystemAlert is an operator notice shown until dismissed.
type SystemAlert struct {
	ID string `gorm:"type:uuid;primaryKey"`

	Type     string `gorm:"type:varchar(32);not null"` // e.g. network, payment, capacity.
	Title    string `gorm:"type:text;not null"`
	Message  string `gorm:"type:text;not null"`
	Severity string `gorm:"type:varchar(16);not null;default:'info'"` // info, warning, critical.

	IsDismissed bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"`
}

// BeforeCreate assigns the primary key.
func (a *SystemAlert) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
