package dto

import (
	"github.com/sonastore/backend/internal/models"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse is a review with the reviewer's display name attached.
type ReviewResponse struct {
	models.Review
	User ReviewerInfo `json:"user"`
}

type ReviewerInfo struct {
	Name string `json:"name"`
}
