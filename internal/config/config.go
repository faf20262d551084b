// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig
	OutputDir string
}

// DatabaseConfig selects and parameterizes the storage backend.
// Kind is "sqlite" (embedded file, the default) or "postgres".
type DatabaseConfig struct {
	Kind     string
	Path     string // sqlite file path
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local use: an embedded SQLite file next to
// the binary and rendered documents in the working directory.
func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Kind:     getEnv("DB_TYPE", "sqlite"),
			Path:     getEnv("DB_PATH", "facturo.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "facturo"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "facturo"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OutputDir: getEnv("OUTPUT_DIR", "."),
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
