package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	SessionBackend string // "memory" or "redis"
	SessionExpiry  time.Duration

	// Redis (session backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Admin bootstrap: emails here get the admin role at registration and
	// always pass the admin gate.
	AdminEmails string

	// Identity provider (optional third-party sign-in)
	IDPIssuer   string
	IDPJWKSURL  string
	IDPAudience string

	// Outbound mail
	EmailAPIKey string
	EmailSender string

	// Object storage
	UploadDir     string
	PublicBaseURL string

	// Server
	Port        string
	CORSOrigins string

	SeedDemo bool
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "sona_store"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionExpiry:  parseDuration(getEnv("SESSION_EXPIRY", "720h"), 720*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		IDPIssuer:   getEnv("IDP_ISSUER", ""),
		IDPJWKSURL:  getEnv("IDP_JWKS_URL", ""),
		IDPAudience: getEnv("IDP_AUDIENCE", ""),

		EmailAPIKey: getEnv("EMAIL_API_KEY", ""),
		EmailSender: getEnv("EMAIL_SENDER", "noreply@sona.store"),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		SeedDemo: parseBool(getEnv("SEED_DEMO", "false")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
