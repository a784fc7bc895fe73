package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles carried by a user account.
const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// User represents a storefront account (customer or administrator).
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Nom          string    `gorm:"size:64" json:"nom"`
	Prenom       string    `gorm:"size:64" json:"prenom"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Telephone    string    `gorm:"size:32" json:"telephone,omitempty"`
	Role         string    `gorm:"size:16;index;not null;default:CLIENT" json:"role"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"` // consecutive failures
	LockedUntil         *time.Time `gorm:"index" json:"-"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
	LastLoginIP         string     `gorm:"size:64" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}

// IsAdmin reports whether the account may use the dashboard API.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName joins prenom and nom, skipping empty parts.
func (u *User) FullName() string {
	switch {
	case u.Prenom == "":
		return u.Nom
	case u.Nom == "":
		return u.Prenom
	default:
		return u.Prenom + " " + u.Nom
	}
}
