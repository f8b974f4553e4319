package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. Exactly one at a time, assigned at creation and
// never changed through the public API.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account that can authenticate against the service.
// Email uniqueness is enforced by the store; the binary collation keeps
// stored emails case-sensitive.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255) collate utf8mb4_bin;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:20;not null;default:'user'"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
