package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing lifecycle states. Any state is reachable from any other; the
// workflow is human-moderated, not a strict pipeline.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Categories is the fixed set a listing must belong to.
var Categories = []string{
	"Games",
	"Productivity",
	"Social",
	"Utilities",
	"Entertainment",
	"Education",
	"Finance",
	"Health & Fitness",
}

func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// App is a submitted listing. PwaURL covers web-app submissions; ApkURL plus
// the file/version fields cover installable packages. At least one of the two
// URLs must be set; both may coexist.
type App struct {
	ID               uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                       `gorm:"not null;size:255" json:"name"`
	ShortDescription string                       `gorm:"not null;size:500" json:"short_description"`
	FullDescription  string                       `gorm:"not null;type:text" json:"full_description"`
	IconURL          string                       `gorm:"not null;size:1000" json:"icon_url"`
	PwaURL           *string                      `gorm:"size:1000" json:"pwa_url,omitempty"`
	ApkURL           *string                      `gorm:"size:1000" json:"apk_url,omitempty"`
	FileSize         *int64                       `json:"file_size,omitempty"`
	VersionName      *string                      `gorm:"size:50" json:"version_name,omitempty"`
	VersionCode      *int                         `json:"version_code,omitempty"`
	Category         string                       `gorm:"not null;size:50;index" json:"category"`
	Screenshots      datatypes.JSONSlice[string]  `gorm:"type:jsonb" json:"screenshots"`
	Status           string                       `gorm:"not null;default:'pending';size:20;index" json:"status"`
	DeveloperID      uuid.UUID                    `gorm:"type:uuid;not null;index" json:"developer_id"`
	CreatedAt        time.Time                    `json:"created_at"`
	Developer        User                         `gorm:"foreignKey:DeveloperID" json:"-"`
}

func (a *App) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
