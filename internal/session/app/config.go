package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	BaseURL     string // Required: KSeF API base URL, e.g. https://api.ksef.mf.gov.pl/v2
	SecretsFile string // Path to the JSON secrets file with principals (default: ./data/secret.json)

	StoreDriver  string // Session store driver: "sqlite" or "file" (default: sqlite)
	DatabaseFile string // SQLite session store path (default: ./data/sessions.db)
	SessionFile  string // JSON session store path for the file driver (default: ./data/session.json)

	PollInterval       time.Duration // Sleep between authorization status polls (default: 1s)
	HTTPTimeout        time.Duration // Per-round-trip HTTP timeout (default: 30s)
	RefreshConcurrency int           // Parallel principals in a batch refresh (default: 3)
	ExpiryLeeway       time.Duration // Renew this long before ValidUntil (default: 30s)
	RefreshTimeout     time.Duration // Overall deadline for one batch refresh (default: 5m)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
}

func LoadConfig() Config {
	return Config{
		BaseURL:     getEnvOrDefault("KSEF_BASE_URL", "https://api.ksef.mf.gov.pl/v2"),
		SecretsFile: getEnvOrDefault("KSEF_SECRETS_FILE", "data/secret.json"),

		StoreDriver:  getEnvOrDefault("KSEF_STORE_DRIVER", "sqlite"),
		DatabaseFile: getEnvOrDefault("KSEF_DATABASE_FILE", "data/sessions.db"),
		SessionFile:  getEnvOrDefault("KSEF_SESSION_FILE", "data/session.json"),

		PollInterval:       getEnvDurationOrDefault("KSEF_POLL_INTERVAL", time.Second),
		HTTPTimeout:        getEnvDurationOrDefault("KSEF_HTTP_TIMEOUT", 30*time.Second),
		RefreshConcurrency: getEnvIntOrDefault("KSEF_REFRESH_CONCURRENCY", 3),
		ExpiryLeeway:       getEnvDurationOrDefault("KSEF_EXPIRY_LEEWAY", 30*time.Second),
		RefreshTimeout:     getEnvDurationOrDefault("KSEF_REFRESH_TIMEOUT", 5*time.Minute),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}
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

	// Plain integers are read as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
