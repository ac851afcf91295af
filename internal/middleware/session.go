package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sonastore/backend/internal/dto"
	"github.com/sonastore/backend/internal/models"
	"github.com/sonastore/backend/internal/services"
)

const (
	userLocal  = "user"
	tokenLocal = "session_token"

	// SessionCookie is also set on register/login for browser clients.
	SessionCookie = "session"
)

// SessionRequired authenticates the request via its session token and loads
// the user into locals. 401 when the token is missing, expired or unknown.
func SessionRequired(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: session required",
			})
		}

		user, err := auth.UserFromToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired session",
			})
		}

		c.Locals(userLocal, user)
		c.Locals(tokenLocal, token)
		return c.Next()
	}
}

// SessionOptional loads the user when a valid session token is present and
// continues anonymously otherwise. Used by the public catalog endpoints,
// where an admin session widens visibility.
func SessionOptional(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := extractToken(c); token != "" {
			if user, err := auth.UserFromToken(c.Context(), token); err == nil {
				c.Locals(userLocal, user)
				c.Locals(tokenLocal, token)
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil on anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}

// SessionToken returns the raw token the request authenticated with.
func SessionToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenLocal).(string)
	return token
}

func extractToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Cookies(SessionCookie)
}
