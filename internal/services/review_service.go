package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sonastore/backend/internal/dto"
	"github.com/sonastore/backend/internal/models"
	"gorm.io/gorm"
)

var ErrDuplicateReview = errors.New("you have already reviewed this app")

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Create adds a review. One review per (app, user); the unique index backs
// the pre-check up under concurrent submissions.
func (s *ReviewService) Create(appID, userID uuid.UUID, req *dto.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	var app models.App
	if err := s.db.First(&app, "id = ?", appID).Error; err != nil {
		return nil, ErrAppNotFound
	}

	var existing models.Review
	if err := s.db.Where("app_id = ? AND user_id = ?", appID, userID).First(&existing).Error; err == nil {
		return nil, ErrDuplicateReview
	}

	review := models.Review{
		ID:      uuid.New(),
		AppID:   appID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := s.db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// List returns an app's reviews, newest first, with reviewer names attached.
func (s *ReviewService) List(appID uuid.UUID) ([]dto.ReviewResponse, error) {
	var app models.App
	if err := s.db.First(&app, "id = ?", appID).Error; err != nil {
		return nil, ErrAppNotFound
	}

	var reviews []models.Review
	if err := s.db.Where("app_id = ?", appID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	ids := make([]uuid.UUID, len(reviews))
	for i, r := range reviews {
		ids[i] = r.UserID
	}
	names, err := userNames(s.db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		name, ok := names[r.UserID]
		if !ok {
			name = "Unknown"
		}
		out[i] = dto.ReviewResponse{Review: r, User: dto.ReviewerInfo{Name: name}}
	}
	return out, nil
}
