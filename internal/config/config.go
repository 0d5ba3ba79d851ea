package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// GitHub gist (remote document)
	GistToken string
	GistID    string // optional, discovered and persisted on first push

	// TMDB (metadata source)
	TMDBAPIKey string

	// Sync
	SyncIntervalMinutes int // minutes between scheduled full syncs (default: 30)

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/gistarr.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("SYNC_INTERVAL_MINUTES", 30)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "gistarr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		GistToken: viper.GetString("GIST_TOKEN"),
		GistID:    viper.GetString("GIST_ID"),

		TMDBAPIKey: viper.GetString("TMDB_API_KEY"),

		SyncIntervalMinutes: viper.GetInt("SYNC_INTERVAL_MINUTES"),

		ServerPort: viper.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "gistarr.db"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if config.GistToken == "" {
		return nil, fmt.Errorf("GIST_TOKEN is required")
	}
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if config.SyncIntervalMinutes < 1 {
		return nil, fmt.Errorf("SYNC_INTERVAL_MINUTES must be at least 1")
	}

	return config, nil
}
