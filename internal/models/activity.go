package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity types written by the API.
const (
	ActivityUserRegistered   = "user_registered"
	ActivityUserLogin        = "user_login"
	ActivityVoucherPurchased = "voucher_purchased"
	ActivityPaymentFailed    = "payment_failed"
	ActivityUserSuspended    = "user_suspended"
	ActivityUserActivated    = "user_activated"
	ActivitySessionClosed    = "session_closed"
)

// ActivityItem is an append-only entry in the admin activity feed.
type ActivityItem struct {
	ID string `gorm:"type:uuid;primaryKey"`

	UserID *string `gorm:"type:uuid;index"`
	User   *User   `gorm:"foreignKey:UserID"`

	Type     string         `gorm:"type:varchar(32);not null;index"`
	Message  string         `gorm:"type:text;not null"`
	Metadata datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"`
}

// TableName keeps the historical table name.
func (ActivityItem) TableName() string {
	return "activity_feed"
}

// BeforeCreate assigns the primary key.
func (a *ActivityItem) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
