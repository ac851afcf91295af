package dto

import (
	"github.com/sonastore/backend/internal/models"
)

type CreateAppRequest struct {
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description"`
	FullDescription  string   `json:"full_description"`
	IconURL          string   `json:"icon_url"`
	PwaURL           *string  `json:"pwa_url,omitempty"`
	ApkURL           *string  `json:"apk_url,omitempty"`
	FileSize         *int64   `json:"file_size,omitempty"`
	VersionName      *string  `json:"version_name,omitempty"`
	VersionCode      *int     `json:"version_code,omitempty"`
	Category         string   `json:"category"`
	Screenshots      []string `json:"screenshots,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AppResponse is a listing with the developer's display name attached.
type AppResponse struct {
	models.App
	Developer DeveloperInfo `json:"developer"`
}

type DeveloperInfo struct {
	Name string `json:"name"`
}

type StatsResponse struct {
	TotalApps   int64 `json:"total_apps"`
	PendingApps int64 `json:"pending_apps"`
	TotalUsers  int64 `json:"total_users"`
}

type ContactRequest struct {
	AppID       string `json:"app_id"`
	SenderEmail string `json:"sender_email"`
	Message     string `json:"message"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
