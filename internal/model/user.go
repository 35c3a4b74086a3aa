package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level of a CRM user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSales   Role = "sales"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSales:
		return true
	default:
		return false
	}
}

// UserStatus is the account status of a user.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// User represents a CRM account. Users are created by an admin without a password
// and activate themselves by redeeming a one-time setup token.
type User struct {
	ID     uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name   string     `json:"name" gorm:"size:255;not null"`
	Email  string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone  string     `json:"phone,omitempty" gorm:"size:50"`
	Role   Role       `json:"role" gorm:"type:varchar(20);not null;default:'sales';index"`
	Status UserStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`

	// Never expose in JSON
	PasswordHash         *string    `json:"-" gorm:"size:255"`
	PasswordResetToken   *string    `json:"-" gorm:"size:64;index"`
	PasswordResetExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPassword reports whether the user completed password setup.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsActive reports whether the account may use the API.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserRef is the subset of a user embedded in populated responses.
type UserRef struct {
	ID    uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// TableName maps UserRef onto the users table for preloading.
func (UserRef) TableName() string { return "users" }
