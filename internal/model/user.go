package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies what a user is allowed to do in the clinic system.
type Role string

const (
	RoleClient    Role = "CLIENT"
	RoleDentist   Role = "DENTIST"
	RolePhysician Role = "PHYSICIAN"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether the role is part of the closed enum.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleDentist, RolePhysician, RoleAdmin:
		return true
	}
	return false
}

// IsProvider reports whether the role owns appointment slots.
func (r Role) IsProvider() bool {
	return r == RoleDentist || r == RolePhysician
}

// User represents a clinic system account. Role is fixed at signup; there is
// no role-change operation.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name         string    `json:"name" gorm:"size:255;not null;index"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'CLIENT';index"`
	Email        string    `json:"email" gorm:"size:255"`
	Phone        string    `json:"phone" gorm:"size:32"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
