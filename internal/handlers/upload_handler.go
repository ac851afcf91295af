package handlers

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sonastore/backend/internal/dto"
	"github.com/sonastore/backend/internal/storage"
)

// UploadHandler stores icons, screenshots and packages via the object-store
// collaborator and returns the public URL the listing fields reference.
type UploadHandler struct {
	store storage.ObjectStore
}

func NewUploadHandler(store storage.ObjectStore) *UploadHandler {
	return &UploadHandler{store: store}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A file field is required",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}
	defer f.Close()

	key := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
	url, err := h.store.Put(c.Context(), key, fileHeader.Header.Get(fiber.HeaderContentType), f)
	if err != nil {
		slog.Error("object store put failed", "error", err, "key", key)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store file",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{URL: url})
}
