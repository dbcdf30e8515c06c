package models

import (
	"time"

	"gorm.io/gorm"
)

// Session is a single device's connection tied to a voucher.
type Session struct {
	ID string `gorm:"type:uuid;primaryKey"` // Primary key.

	UserID string `gorm:"type:uuid;not null;index"` // Connected user ID.
	User   *User  `gorm:"foreignKey:UserID"`        // Connected user.

	VoucherID string   `gorm:"type:uuid;not null;index"` // Voucher granting access.
	Voucher   *Voucher `gorm:"foreignKey:VoucherID"`     // Voucher granting access.

	DeviceName     string `gorm:"type:text"`        // Reported device name.
	DeviceType     string `gorm:"type:varchar(32)"` // phone, laptop, tablet...
	MACAddress     string `gorm:"type:varchar(32)"` // Client MAC address.
	IPAddress      string `gorm:"type:varchar(64)"` // Leased IP address.
	SignalStrength int    `gorm:"not null;default:0"`

	DataUsedMB float64 `gorm:"type:decimal(14,2);not null;default:0"` // Data consumed in this session.
	IsActive   bool    `gorm:"not null;index"`

	SessionStart time.Time  `gorm:"not null;index"` // Connection time.
	SessionEnd   *time.Time // Disconnect time.
}

// TableName keeps the historical table name.
func (Session) TableName() string {
	return "user_sessions"
}

// BeforeCreate assigns the primary key and defaults the start time.
func (s *Session) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	if s.SessionStart.IsZero() {
		s.SessionStart = time.Now().UTC()
	}
	return nil
}
