package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	SessionDuration time.Duration
	CSRFSecret      string
	AppBaseURL      string

	// Database: sqlite (default), postgres, or mysql
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	TemplatesPath  string
	StaticPath     string
	MigrationsPath string

	// Email (Amazon SES); leaving SESFromEmail empty disables email
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	EmailDebug   bool

	// OAuth sign-in providers
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
	AppleClientID        string
	AppleClientSecret    string
	OAuthRedirectBaseURL string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		SessionDuration: 24 * time.Hour,
		CSRFSecret:      getEnv("CSRF_SECRET", "dev-only-csrf-secret"),
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),

		DatabaseType: getEnv("DB_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./gamepal.db"),
		DatabaseURL:  getEnv("DB_URL", ""),

		TemplatesPath:  getEnv("TEMPLATES_PATH", "./internal/templates"),
		StaticPath:     getEnv("STATIC_PATH", "./static"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "GamePal"),
		EmailDebug:   getEnv("EMAIL_DEBUG", "") == "true",

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
		AppleClientID:        getEnv("APPLE_CLIENT_ID", ""),
		AppleClientSecret:    getEnv("APPLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
