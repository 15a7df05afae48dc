package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL string // Optional: public base URL, used to build the OAuth callback (default: http://localhost:3000)

	GoogleClientID     string // Optional: enables Google login when set together with the secret
	GoogleClientSecret string // Optional

	DatabaseFile    string        // Optional: path to SQLite database file (default: ./whisperwall.db)
	PepperFile      string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	SessionLifetime time.Duration // Optional: idle session lifetime (default: 24h)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 3000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// A missing .env file is fine; the environment may be set by the runtime.
	_ = godotenv.Load()

	return Config{
		BaseURL:             getEnvOrDefault("BASE_URL", "http://localhost:3000"),
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "whisperwall.db"),
		PepperFile:          getEnvOrDefault("PEPPER_FILE", "pepper"),
		SessionLifetime:     getEnvDurationOrDefault("SESSION_LIFETIME", 24*time.Hour),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// GoogleCallbackURL is where the provider sends the browser after consent.
func (c Config) GoogleCallbackURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/auth/google/secrets"
}

// SecureCookies reports whether session cookies should carry the Secure flag.
// Plain http is only tolerated in dev.
func (c Config) SecureCookies() bool {
	return c.Env != "dev"
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
