package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sonastore/backend/internal/config"
	"github.com/sonastore/backend/internal/handlers"
	"github.com/sonastore/backend/internal/middleware"
	"github.com/sonastore/backend/internal/services"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Apps    *handlers.AppHandler
	Reviews *handlers.ReviewHandler
	Contact *handlers.ContactHandler
	Uploads *handlers.UploadHandler
	Health  *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, auth *services.AuthService, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Credential endpoints get a stricter limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/register", authLimiter, h.Auth.Register)
	api.Post("/login", authLimiter, h.Auth.Login)
	api.Post("/auth/provider", authLimiter, h.Auth.ProviderSignIn)

	api.Post("/logout", middleware.SessionRequired(auth), h.Auth.Logout)
	api.Get("/user", middleware.SessionRequired(auth), h.Auth.Me)

	// Catalog: public, but an authenticated admin session widens visibility
	api.Get("/apps", middleware.SessionOptional(auth), h.Apps.List)
	api.Get("/apps/:id", middleware.SessionOptional(auth), h.Apps.Get)
	api.Get("/apps/:id/reviews", middleware.SessionOptional(auth), h.Reviews.List)

	// Submissions and reviews require a session
	api.Post("/apps", middleware.SessionRequired(auth), h.Apps.Create)
	api.Delete("/apps/:id", middleware.SessionRequired(auth), h.Apps.Delete)
	api.Post("/apps/:id/reviews", middleware.SessionRequired(auth), h.Reviews.Create)
	api.Get("/my-apps", middleware.SessionRequired(auth), h.Apps.MyApps)
	api.Post("/contact", middleware.SessionRequired(auth), h.Contact.Send)
	api.Post("/uploads", middleware.SessionRequired(auth), h.Uploads.Upload)

	// Moderation: session + admin role
	admin := api.Group("", middleware.SessionRequired(auth), middleware.AdminRequired(cfg))
	admin.Patch("/apps/:id/status", h.Apps.UpdateStatus)
	admin.Get("/admin/stats", h.Apps.Stats)
}
