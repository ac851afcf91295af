package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account record. Password holds the credential as "salt:hash"
// (hex-encoded scrypt); it is empty for accounts created via an external
// identity provider.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name            string    `gorm:"not null;size:255" json:"name"`
	Password        string    `gorm:"not null" json:"-"`
	Role            string    `gorm:"size:20;default:'user'" json:"role"`
	Provider        string    `gorm:"size:50;default:'email'" json:"-"`
	ProviderSubject *string   `gorm:"size:255;index" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
