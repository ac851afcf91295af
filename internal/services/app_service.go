package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sonastore/backend/internal/dto"
	"github.com/sonastore/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAppNotFound   = errors.New("app not found")
	ErrInvalidStatus = errors.New("invalid status: must be pending, approved, or rejected")
	ErrNotOwner      = errors.New("only an admin or the owning developer may do this")
)

// ListFilters narrows the catalog query. Zero values mean "no filter".
type ListFilters struct {
	Category    string
	Search      string
	Status      string
	DeveloperID *uuid.UUID
}

type AppService struct {
	db *gorm.DB
}

func NewAppService(db *gorm.DB) *AppService {
	return &AppService{db: db}
}

// List returns apps matching every supplied filter, newest first, with the
// developer display name attached. Non-admin callers only ever see approved
// listings; any status they request is overridden.
func (s *AppService) List(filters ListFilters, isAdmin bool) ([]dto.AppResponse, error) {
	status := filters.Status
	if !isAdmin {
		status = models.StatusApproved
	}

	query := s.db.Model(&models.App{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if filters.Category != "" && filters.Category != "All" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.DeveloperID != nil {
		query = query.Where("developer_id = ?", *filters.DeveloperID)
	}
	if filters.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filters.Search)+"%")
	}

	var apps []models.App
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}

	return s.attachDevelopers(apps)
}

// Get fetches one app. Listings that are not approved stay invisible to
// everyone except admins and the owning developer.
func (s *AppService) Get(id uuid.UUID, caller *models.User) (*dto.AppResponse, error) {
	var app models.App
	if err := s.db.First(&app, "id = ?", id).Error; err != nil {
		return nil, ErrAppNotFound
	}

	if app.Status != models.StatusApproved {
		if caller == nil || (!caller.IsAdmin() && app.DeveloperID != caller.ID) {
			return nil, ErrAppNotFound
		}
	}

	resolved, err := s.attachDevelopers([]models.App{app})
	if err != nil {
		return nil, err
	}
	return &resolved[0], nil
}

// Create submits a new listing. Submissions default to pending; listings
// created by an admin are auto-approved.
func (s *AppService) Create(developer *models.User, req *dto.CreateAppRequest) (*models.App, error) {
	if req.Name == "" || req.ShortDescription == "" || req.FullDescription == "" || req.IconURL == "" {
		return nil, errors.New("name, descriptions and icon are required")
	}
	if !models.ValidCategory(req.Category) {
		return nil, errors.New("invalid category: " + req.Category)
	}
	if !hasURL(req.PwaURL) && !hasURL(req.ApkURL) {
		return nil, errors.New("a web app URL or an installable package URL is required")
	}

	status := models.StatusPending
	if developer.IsAdmin() {
		status = models.StatusApproved
	}

	screenshots := req.Screenshots
	if screenshots == nil {
		screenshots = []string{}
	}

	app := models.App{
		ID:               uuid.New(),
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		IconURL:          req.IconURL,
		PwaURL:           req.PwaURL,
		ApkURL:           req.ApkURL,
		FileSize:         req.FileSize,
		VersionName:      req.VersionName,
		VersionCode:      req.VersionCode,
		Category:         req.Category,
		Screenshots:      datatypes.NewJSONSlice(screenshots),
		Status:           status,
		DeveloperID:      developer.ID,
	}

	if err := s.db.Create(&app).Error; err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}
	return &app, nil
}

// SetStatus moves a listing between lifecycle states. Every state is
// reachable from every other; the admin check lives at the route gate.
func (s *AppService) SetStatus(id uuid.UUID, status string) (*models.App, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var app models.App
	if err := s.db.First(&app, "id = ?", id).Error; err != nil {
		return nil, ErrAppNotFound
	}

	if err := s.db.Model(&app).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	app.Status = status
	return &app, nil
}

// Delete removes a listing and its reviews. Allowed for admins and the
// owning developer.
func (s *AppService) Delete(id uuid.UUID, caller *models.User) error {
	var app models.App
	if err := s.db.First(&app, "id = ?", id).Error; err != nil {
		return ErrAppNotFound
	}

	if !caller.IsAdmin() && app.DeveloperID != caller.ID {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("app_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&app).Error
	})
}

// Stats returns the admin dashboard counts.
func (s *AppService) Stats() (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	if err := s.db.Model(&models.App{}).Count(&stats.TotalApps).Error; err != nil {
		return nil, fmt.Errorf("failed to count apps: %w", err)
	}
	if err := s.db.Model(&models.App{}).Where("status = ?", models.StatusPending).Count(&stats.PendingApps).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending apps: %w", err)
	}
	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	return &stats, nil
}

// attachDevelopers resolves developer display names with one IN query
// instead of a lookup per row.
func (s *AppService) attachDevelopers(apps []models.App) ([]dto.AppResponse, error) {
	names, err := userNames(s.db, func() []uuid.UUID {
		ids := make([]uuid.UUID, len(apps))
		for i, a := range apps {
			ids[i] = a.DeveloperID
		}
		return ids
	}())
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppResponse, len(apps))
	for i, a := range apps {
		name, ok := names[a.DeveloperID]
		if !ok {
			name = "Unknown"
		}
		out[i] = dto.AppResponse{App: a, Developer: dto.DeveloperInfo{Name: name}}
	}
	return out, nil
}

// userNames batch-fetches display names for a set of user IDs.
func userNames(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	unique := make(map[uuid.UUID]struct{}, len(ids))
	distinct := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, seen := unique[id]; !seen {
			unique[id] = struct{}{}
			distinct = append(distinct, id)
		}
	}

	names := make(map[uuid.UUID]string, len(distinct))
	if len(distinct) == 0 {
		return names, nil
	}

	var users []models.User
	if err := db.Where("id IN ?", distinct).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user names: %w", err)
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

func hasURL(s *string) bool {
	return s != nil && *s != ""
}
