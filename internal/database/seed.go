package database

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sonastore/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDemo populates an empty catalog with a demo developer and a few
// listings so a fresh deployment has something to show. No-op when any app
// already exists.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.App{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	dev := models.User{}
	err := db.Where("email = ?", "dev@sona.com").First(&dev).Error
	if err != nil {
		// Random unusable credential: the demo developer cannot log in.
		raw := make([]byte, 32)
		rand.Read(raw)
		dev = models.User{
			ID:       uuid.New(),
			Email:    "dev@sona.com",
			Name:     "Sona Dev",
			Password: hex.EncodeToString(raw),
			Role:     models.RoleUser,
		}
		if err := db.Create(&dev).Error; err != nil {
			return err
		}
	}

	str := func(s string) *string { return &s }
	apps := []models.App{
		{
			ID:               uuid.New(),
			Name:             "Neon Notes",
			ShortDescription: "Capture your glowing thoughts.",
			FullDescription:  "Neon Notes is a minimal, dark-themed note taking app designed for night owls. Syncs across devices and supports markdown.",
			IconURL:          "https://images.unsplash.com/photo-1517849845537-4d257902454a?w=100&h=100&fit=crop",
			PwaURL:           str("https://neon-notes-demo.replit.app"),
			Category:         "Productivity",
			Screenshots: datatypes.NewJSONSlice([]string{
				"https://images.unsplash.com/photo-1517849845537-4d257902454a?w=800&q=80",
				"https://images.unsplash.com/photo-1507925921958-8a62f3d1a50d?w=800&q=80",
			}),
			Status:      models.StatusApproved,
			DeveloperID: dev.ID,
		},
		{
			ID:               uuid.New(),
			Name:             "CyberChat",
			ShortDescription: "Encrypted messaging for the future.",
			FullDescription:  "Stay connected with end-to-end encryption. CyberChat offers self-destructing messages, dark mode by default, and zero logs.",
			IconURL:          "https://images.unsplash.com/photo-1611162617474-5b21e879e113?w=100&h=100&fit=crop",
			PwaURL:           str("https://cyberchat-demo.replit.app"),
			Category:         "Social",
			Screenshots: datatypes.NewJSONSlice([]string{
				"https://images.unsplash.com/photo-1611162617474-5b21e879e113?w=800&q=80",
			}),
			Status:      models.StatusApproved,
			DeveloperID: dev.ID,
		},
		{
			ID:               uuid.New(),
			Name:             "Retro Racer",
			ShortDescription: "8-bit racing madness.",
			FullDescription:  "Race through synthwave tracks in this PWA-exclusive racing game. High scores, global leaderboards, and controller support.",
			IconURL:          "https://images.unsplash.com/photo-1550745165-9bc0b252726f?w=100&h=100&fit=crop",
			PwaURL:           str("https://retro-racer-demo.replit.app"),
			Category:         "Games",
			Screenshots: datatypes.NewJSONSlice([]string{
				"https://images.unsplash.com/photo-1550745165-9bc0b252726f?w=800&q=80",
			}),
			Status:      models.StatusApproved,
			DeveloperID: dev.ID,
		},
		{
			ID:               uuid.New(),
			Name:             "Zen Focus",
			ShortDescription: "Soundscapes for deep work.",
			FullDescription:  "Block out distractions with curated ambient sounds. Features Pomodoro timer and usage analytics.",
			IconURL:          "https://images.unsplash.com/photo-1519834785169-98be25ec3f84?w=100&h=100&fit=crop",
			PwaURL:           str("https://zen-focus-demo.replit.app"),
			Category:         "Health & Fitness",
			Screenshots:      datatypes.NewJSONSlice([]string{}),
			Status:           models.StatusPending,
			DeveloperID:      dev.ID,
		},
	}

	for i := range apps {
		if err := db.Create(&apps[i]).Error; err != nil {
			return err
		}
	}

	slog.Info("demo catalog seeded", "apps", len(apps))
	return nil
}
