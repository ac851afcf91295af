package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sonastore/backend/internal/config"
	"github.com/sonastore/backend/internal/dto"
)

// AdminRequired gates moderation routes. It expects SessionRequired to have
// run first, and passes users whose role is admin or whose email is on the
// config bootstrap list.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := splitCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if user.IsAdmin() {
			return c.Next()
		}
		for _, email := range adminEmails {
			if email == user.Email {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
