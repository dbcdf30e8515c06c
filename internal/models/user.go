package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values stored on User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Status values stored on User.Status.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User represents an end-user or administrator account.
type User struct {
	ID string `gorm:"type:uuid;primaryKey"` // Primary key.

	Email        string `gorm:"type:text;not null;uniqueIndex"` // Login email, stored lower-cased.
	PasswordHash string `gorm:"type:text;not null"`             // Bcrypt hash.
	FullName     string `gorm:"type:text;not null"`             // Display name.
	Phone        string `gorm:"type:text"`                      // Optional contact phone.

	Role   string `gorm:"type:varchar(16);not null;default:'user';index"`   // user or admin.
	Status string `gorm:"type:varchar(16);not null;default:'active';index"` // active or suspended.

	DataUsedMB float64 `gorm:"type:decimal(14,2);not null;default:0"` // Cumulative data usage across vouchers.

	CreatedAt time.Time  `gorm:"not null;autoCreateTime"` // Registration timestamp.
	LastLogin *time.Time // Last successful login.
}

// BeforeCreate assigns the primary key.
func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// IsAdmin reports whether the account holds the administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
