package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sonastore/backend/internal/config"
	"github.com/sonastore/backend/internal/database"
	"github.com/sonastore/backend/internal/handlers"
	"github.com/sonastore/backend/internal/identity"
	"github.com/sonastore/backend/internal/logging"
	"github.com/sonastore/backend/internal/mailer"
	"github.com/sonastore/backend/internal/middleware"
	"github.com/sonastore/backend/internal/routes"
	"github.com/sonastore/backend/internal/services"
	"github.com/sonastore/backend/internal/session"
	"github.com/sonastore/backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	// Local dev convenience; ignored when no .env exists
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if cfg.SeedDemo {
		if err := database.SeedDemo(db); err != nil {
			slog.Error("demo seed failed", "error", err)
			os.Exit(1)
		}
	}

	// DB log sink (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Session store
	var sessions session.Store
	switch cfg.SessionBackend {
	case "redis":
		redisStore, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Error("redis session store failed", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		sessions = redisStore
	default:
		memStore := session.NewMemoryStore()
		defer memStore.Stop()
		sessions = memStore
	}
	slog.Info("session store ready", "backend", cfg.SessionBackend, "expiry", cfg.SessionExpiry)

	// External collaborators
	verifier := identity.NewVerifier(cfg.IDPIssuer, cfg.IDPJWKSURL, cfg.IDPAudience)

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.EmailAPIKey != "" {
		mail = mailer.NewSendGridMailer(cfg.EmailAPIKey, cfg.EmailSender)
	}

	objectStore, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		slog.Error("object store init failed", "error", err)
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(db, sessions, verifier, cfg)
	appService := services.NewAppService(db)
	reviewService := services.NewReviewService(db)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Uploaded objects served as static files
	app.Static("/uploads", objectStore.Dir())

	// Routes
	routes.Setup(app, cfg, authService, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, cfg),
		Apps:    handlers.NewAppHandler(appService),
		Reviews: handlers.NewReviewHandler(reviewService),
		Contact: handlers.NewContactHandler(db, mail),
		Uploads: handlers.NewUploadHandler(objectStore),
		Health:  handlers.NewHealthHandler(db),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
