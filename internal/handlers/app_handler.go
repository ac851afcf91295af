package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sonastore/backend/internal/dto"
	"github.com/sonastore/backend/internal/middleware"
	"github.com/sonastore/backend/internal/services"
)

type AppHandler struct {
	appService *services.AppService
}

func NewAppHandler(appService *services.AppService) *AppHandler {
	return &AppHandler{appService: appService}
}

// List serves the public catalog. Anonymous and non-admin callers only see
// approved listings no matter what status they ask for.
func (h *AppHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	filters := services.ListFilters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Status:   c.Query("status"),
	}

	apps, err := h.appService.List(filters, user.IsAdmin())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch apps",
		})
	}
	return c.JSON(apps)
}

func (h *AppHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid app ID",
		})
	}

	app, err := h.appService.Get(id, middleware.CurrentUser(c))
	if err != nil {
		if errors.Is(err, services.ErrAppNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch app",
		})
	}
	return c.JSON(app)
}

func (h *AppHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAppRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	app, err := h.appService.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *AppHandler) MyApps(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	// Owner views their own submissions in any state; the admin override in
	// List still applies to everyone else's listings, so scope by developer
	// with admin visibility.
	apps, err := h.appService.List(services.ListFilters{DeveloperID: &user.ID}, true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch apps",
		})
	}
	return c.JSON(apps)
}

func (h *AppHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid app ID",
		})
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	app, err := h.appService.SetStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrAppNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update status",
		})
	}
	return c.JSON(app)
}

func (h *AppHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid app ID",
		})
	}

	if err := h.appService.Delete(id, middleware.CurrentUser(c)); err != nil {
		if errors.Is(err, services.ErrAppNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrNotOwner) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete app",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AppHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.appService.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch stats",
		})
	}
	return c.JSON(stats)
}
