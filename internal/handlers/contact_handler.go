package handlers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sonastore/backend/internal/dto"
	"github.com/sonastore/backend/internal/mailer"
	"github.com/sonastore/backend/internal/middleware"
	"github.com/sonastore/backend/internal/models"
	"gorm.io/gorm"
)

// ContactHandler relays a user's message to a listing's developer through
// the outbound mail collaborator.
type ContactHandler struct {
	db     *gorm.DB
	mailer mailer.Mailer
}

func NewContactHandler(db *gorm.DB, m mailer.Mailer) *ContactHandler {
	return &ContactHandler{db: db, mailer: m}
}

func (h *ContactHandler) Send(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Message is required",
		})
	}

	appID, err := uuid.Parse(req.AppID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid app ID",
		})
	}

	var app models.App
	if err := h.db.First(&app, "id = ?", appID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "App not found",
		})
	}

	var developer models.User
	if err := h.db.First(&developer, "id = ?", app.DeveloperID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to resolve developer",
		})
	}

	sender := middleware.CurrentUser(c)
	replyTo := req.SenderEmail
	if replyTo == "" {
		replyTo = sender.Email
	}

	subject := fmt.Sprintf("Message about %s on Sona Store", app.Name)
	body := fmt.Sprintf("From: %s (%s)\n\n%s", sender.Name, replyTo, req.Message)

	if err := h.mailer.Send(c.Context(), developer.Email, subject, body); err != nil {
		slog.Error("contact relay failed", "error", err, "app_id", app.ID.String())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to send message",
		})
	}

	return c.JSON(fiber.Map{"message": "Message sent to developer"})
}
