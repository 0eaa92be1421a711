package common

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Paths    PathsConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN         string
	DialTimeout time.Duration
}

// PathsConfig holds the artifact directories
type PathsConfig struct {
	OutputDir string
	ImagesDir string
}

// LoadConfig loads configuration from environment variables. DB_URL wins when
// set; otherwise the DSN is assembled from the individual POSTGRES_* variables.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:         getEnv("DB_URL", buildDSN()),
			DialTimeout: getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Paths: PathsConfig{
			OutputDir: getEnv("OUTPUT_DIR", "output"),
			ImagesDir: getEnv("IMAGES_DIR", "images"),
		},
	}
}

func buildDSN() string {
	db := os.Getenv("POSTGRES_DB")
	user := os.Getenv("POSTGRES_USER")
	if db == "" || user == "" {
		return ""
	}
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(user),
		url.QueryEscape(os.Getenv("POSTGRES_PASSWORD")),
		host, port, db)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL or POSTGRES_DB/POSTGRES_USER is required", ErrStartup)
	}
	if c.Paths.OutputDir == "" || c.Paths.ImagesDir == "" {
		return NewAppError("CONFIG_ERROR", "OUTPUT_DIR and IMAGES_DIR must not be empty", ErrStartup)
	}
	return nil
}
