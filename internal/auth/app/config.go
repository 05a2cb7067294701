package app

import (
	"os"
	"strconv"
	"time"

	"github.com/taskbridge/taskbridge/internal/auth/mail"
	"github.com/taskbridge/taskbridge/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: taskbridge-auth)

	JWTSecret        string        // Required: HMAC secret for access tokens
	JWTExpire        time.Duration // Access token lifetime (default: 24h)
	JWTRefreshSecret string        // Optional: separate secret for refresh tokens
	JWTRefreshExpire time.Duration // Refresh token lifetime (default: 168h)
	ResetTokenExpire time.Duration // Password reset token lifetime (default: 10m)
	PersistRefresh   bool          // Mirror refresh tokens onto accounts (default: true in production)

	GoogleClientID string // Required for Google login; empty disables the endpoint's verifier audience check

	DatabaseFile string // Path to SQLite database file (default: ./auth.db)
	PepperFile   string // Path to pepper file for password hashing (default: ./pepper)

	SMTP mail.SMTPConfig

	Env                  string        // Environment (dev, staging, production) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	cfg := Config{
		Issuer: getEnvOrDefault("AUTH_ISSUER", "taskbridge-auth"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpire:        getEnvDurationOrDefault("JWT_EXPIRE", jwtx.DefaultAccessTokenTTL),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		JWTRefreshExpire: getEnvDurationOrDefault("JWT_REFRESH_EXPIRE", jwtx.DefaultRefreshTokenTTL),
		ResetTokenExpire: getEnvDurationOrDefault("RESET_TOKEN_EXPIRE", 10*time.Minute),
		PersistRefresh:   getEnvBoolOrDefault("AUTH_PERSIST_REFRESH", env == "production"),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		SMTP: mail.SMTPConfig{
			Addr:     getEnvOrDefault("SMTP_ADDR", "localhost:587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			UseTLS:   getEnvBoolOrDefault("SMTP_TLS", false),
			Timeout:  getEnvDurationOrDefault("SMTP_TIMEOUT", 10*time.Second),
			From:     getEnvOrDefault("SMTP_FROM", "no-reply@taskbridge.local"),
			ResetURL: getEnvOrDefault("RESET_PASSWORD_URL", "http://localhost:3000/reset-password"),
		},

		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept duration syntax ("1h", "30m", "90s") first.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
