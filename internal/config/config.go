package config

import (
	"os"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	LogLevel string
	LogFile  string
	Dev      bool
	// Engine is the default engine binary the referee launches.
	Engine string
	// MoveTimeout bounds how long the referee waits for one engine line.
	MoveTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("LOG_FILE"),
		Dev:         isDevelopmentMode(),
		Engine:      envOrDefault("MIDDLEAGES_ENGINE", "middleages"),
		MoveTimeout: durationOrDefault("MIDDLEAGES_MOVE_TIMEOUT", 2*time.Second),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func isDevelopmentMode() bool {
	return os.Getenv("DEV") == "true" ||
		os.Getenv("DEV_MODE") == "true" ||
		os.Getenv("DEVELOPMENT") == "true"
}
