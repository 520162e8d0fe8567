package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for session snapshots
const (
	StorageMemory = "memory"
	StorageFile   = "file"
)

// Analytics backends
const (
	AnalyticsMemory        = "memory"
	AnalyticsSQLite        = "sqlite"
	AnalyticsElasticsearch = "elasticsearch"
)

// Config holds all configuration for the application
type Config struct {
	// Environment
	Environment string // "development" or "production"
	LogLevel    string

	// Persistence
	DataDir       string
	StorageType   string
	AnalyticsType string
	SQLitePath    string
	Elasticsearch ElasticsearchConfig

	// Discord configuration
	DiscordToken     string
	DiscordChannelID string

	// Gameplay and maintenance
	MaxComputerSteps    int
	SessionMaxAge       time.Duration
	CleanupInterval     time.Duration
	LearningRecordsKeep int
}

// ElasticsearchConfig holds connection settings for the analytics cluster
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// Load reads the configuration from a .env file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// FromEnv builds and validates a Config from the process environment only
func FromEnv() (*Config, error) {
	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	dataDir := getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data"))

	cfg := &Config{
		Environment:   getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		DataDir:       dataDir,
		StorageType:   getEnvWithDefault("STORAGE_TYPE", StorageFile),
		AnalyticsType: getEnvWithDefault("ANALYTICS_TYPE", AnalyticsSQLite),
		SQLitePath:    getEnvWithDefault("SQLITE_PATH", filepath.Join(dataDir, "uno.db")),
		Elasticsearch: ElasticsearchConfig{
			URL:         getEnvWithDefault("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:    os.Getenv("ELASTICSEARCH_USERNAME"),
			Password:    os.Getenv("ELASTICSEARCH_PASSWORD"),
			IndexPrefix: getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", "uno"),
		},
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
	}

	if cfg.MaxComputerSteps, err = getEnvInt("MAX_COMPUTER_STEPS", 5000); err != nil {
		return nil, err
	}
	if cfg.LearningRecordsKeep, err = getEnvInt("LEARNING_RECORDS_KEEP", 10000); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getEnvDuration("SESSION_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = getEnvDuration("CLEANUP_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks enum values and paired settings
func (c *Config) validate() error {
	switch c.StorageType {
	case StorageMemory, StorageFile:
	default:
		return fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageMemory, StorageFile, c.StorageType)
	}

	switch c.AnalyticsType {
	case AnalyticsMemory, AnalyticsSQLite:
	case AnalyticsElasticsearch:
		if c.Elasticsearch.URL == "" {
			return fmt.Errorf("ELASTICSEARCH_URL is required when ANALYTICS_TYPE is %s", AnalyticsElasticsearch)
		}
	default:
		return fmt.Errorf("ANALYTICS_TYPE must be memory, sqlite or elasticsearch, got %q", c.AnalyticsType)
	}

	if (c.DiscordToken == "") != (c.DiscordChannelID == "") {
		return fmt.Errorf("DISCORD_TOKEN and DISCORD_CHANNEL_ID must be set together")
	}
	if c.MaxComputerSteps < 1 {
		return fmt.Errorf("MAX_COMPUTER_STEPS must be positive")
	}
	if c.SessionMaxAge <= 0 || c.CleanupInterval <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE and CLEANUP_INTERVAL must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DiscordEnabled reports whether session updates should be posted to Discord
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

// SessionsPath is the file session snapshots are mirrored to
func (c *Config) SessionsPath() string {
	return filepath.Join(c.DataDir, "sessions.json")
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30m: %w", key, err)
	}
	return d, nil
}
