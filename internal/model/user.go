package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role controls balance enforcement. Directors may spend past zero.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDirector Role = "director"
)

// User represents a platform user with a spendable credit balance.
// Email is the external lookup key everywhere; ID stays internal.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255"` // Never expose in JSON
	Credits      int64     `json:"credits" gorm:"not null;default:0"`
	Role         Role      `json:"role" gorm:"size:50;not null;default:'customer';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

// IsDirector reports whether the user is exempt from balance checks.
func (u *User) IsDirector() bool {
	return u.Role == RoleDirector
}
