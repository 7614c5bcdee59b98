package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Codepage      string
	Title         string
	MaxChunkBytes int
	Index         bool
	LogLevel      slog.Level
	LogFormat     string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for a .env alongside it
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		Codepage:  getEnv("MAMBLER_CODEPAGE", "437"),
		Title:     getEnv("MAMBLER_TITLE", ""),
		LogFormat: getEnv("MAMBLER_LOG_FORMAT", "text"),
	}

	// Parse MAMBLER_MAX_CHUNK_BYTES
	// Note: the archive directory stores article lengths in sixteen bits,
	// so 65535 is the hard ceiling no matter what is configured here.
	chunkStr := getEnv("MAMBLER_MAX_CHUNK_BYTES", "65535")
	chunkBytes, err := strconv.Atoi(chunkStr)
	if err != nil {
		return nil, fmt.Errorf("MAMBLER_MAX_CHUNK_BYTES must be a valid integer: %w", err)
	}
	if chunkBytes < 1 || chunkBytes > 65535 {
		return nil, fmt.Errorf("MAMBLER_MAX_CHUNK_BYTES must be between 1 and 65535")
	}
	cfg.MaxChunkBytes = chunkBytes

	// Parse MAMBLER_INDEX
	indexStr := getEnv("MAMBLER_INDEX", "true")
	index, err := strconv.ParseBool(indexStr)
	if err != nil {
		return nil, fmt.Errorf("MAMBLER_INDEX must be a boolean value: %w", err)
	}
	cfg.Index = index

	// Parse MAMBLER_LOG_LEVEL
	level, err := parseLogLevel(getEnv("MAMBLER_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// Validate MAMBLER_LOG_FORMAT
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("MAMBLER_LOG_FORMAT must be \"text\" or \"json\"")
	}

	return cfg, nil
}

// parseLogLevel maps a level name to its slog value.
func parseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("MAMBLER_LOG_LEVEL must be one of debug, info, warn, error")
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
