package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends accepted by JOYJAR_STORAGE
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageBadger   = "badger"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// DefaultSlotKey is the storage key the journal document is kept under
const DefaultSlotKey = "theJoyJarState_v1"

// Config holds application configuration
type Config struct {
	Storage       string `yaml:"storage"`
	DataDir       string `yaml:"data_dir"`
	SlotKey       string `yaml:"slot_key"`
	RedisURL      string `yaml:"redis_url"`
	DatabaseURL   string `yaml:"database_url"`
	OpenAIKey     string `yaml:"openai_api_key"`
	AIModel       string `yaml:"ai_model"`
	AIBaseURL     string `yaml:"ai_base_url"`
	AITimeoutSecs int    `yaml:"ai_timeout_seconds"`
	DebugMode     bool   `yaml:"debug_mode"`
	OTELEnabled   bool   `yaml:"otel_enabled"`
	OTELEndpoint  string `yaml:"otel_endpoint"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Storage:       StorageFile,
		DataDir:       defaultDataDir(),
		SlotKey:       DefaultSlotKey,
		RedisURL:      "redis://localhost:6379/0",
		AIModel:       "gpt-4o-mini",
		AITimeoutSecs: 60,
	}
}

// Load loads configuration from an optional YAML file named by JOYJAR_CONFIG,
// then from environment variables. Environment variables take precedence.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("JOYJAR_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Storage = strings.ToLower(getEnv("JOYJAR_STORAGE", cfg.Storage))
	cfg.DataDir = getEnv("JOYJAR_DATA_DIR", cfg.DataDir)
	cfg.SlotKey = getEnv("JOYJAR_SLOT_KEY", cfg.SlotKey)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.AIModel = getEnv("AI_MODEL", cfg.AIModel)
	cfg.AIBaseURL = getEnv("AI_BASE_URL", cfg.AIBaseURL)
	cfg.AITimeoutSecs = getEnvInt("AI_TIMEOUT_SECONDS", cfg.AITimeoutSecs)
	cfg.DebugMode = getEnvBool("DEBUG_MODE", cfg.DebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected backend has what it needs
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageFile, StorageBadger:
		if c.DataDir == "" {
			return fmt.Errorf("JOYJAR_DATA_DIR is required for %s storage", c.Storage)
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for redis storage")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres storage")
		}
	case StorageSQLite:
		if c.DatabaseURL == "" && c.DataDir == "" {
			return fmt.Errorf("DATABASE_URL or JOYJAR_DATA_DIR is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}

	if c.SlotKey == "" {
		return fmt.Errorf("JOYJAR_SLOT_KEY must not be empty")
	}
	if c.OTELEnabled && c.OTELEndpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}

// SQLitePath returns the database file used by the sqlite backend
func (c *Config) SQLitePath() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return filepath.Join(c.DataDir, "joyjar.db")
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "joyjar")
	}
	return ".joyjar"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
