package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"jira-mcp/internal/jira"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira            jira.Config
	LogDir          string
	DefaultFieldSet string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if exeDir != "" {
			logDir = filepath.Join(exeDir, "logs")
		} else {
			logDir = "logs"
		}
	}

	delayMs, _ := strconv.Atoi(getEnv("JIRA_REQUEST_DELAY_MS", "250"))

	cfg := &AppConfig{
		Jira: jira.Config{
			BaseURL:      getEnv("JIRA_URL", ""),
			Email:        getEnv("JIRA_EMAIL", ""),
			APIToken:     getEnv("JIRA_API_TOKEN", ""),
			Token:        getEnv("JIRA_TOKEN", ""),
			RequestDelay: time.Duration(delayMs) * time.Millisecond,
		},
		LogDir:          logDir,
		DefaultFieldSet: getEnv("JIRA_DEFAULT_FIELD_SET", "navigable"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
