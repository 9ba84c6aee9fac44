package config

import (
	"os"
	"strconv"

	"webgwas/internal/errors"
)

// Config represents the complete process configuration, loaded once at
// startup from the environment.
type Config struct {
	Paths  PathConfig   `validate:"required"`
	S3     S3Config     `validate:"required"`
	Server ServerConfig `validate:"required"`
	Queue  QueueConfig
}

// PathConfig holds the base directory layout (cohorts/, results/).
type PathConfig struct {
	RootDirectory string `validate:"required"`
}

// S3Config holds the object-storage target for packaged results.
type S3Config struct {
	Bucket     string
	ResultPath string
	DryRun     bool
}

// ServerConfig holds the demo HTTP front door's listen address.
type ServerConfig struct {
	Port string `validate:"required"`
}

// QueueConfig holds executor tuning knobs.
type QueueConfig struct {
	WorkerTileCount int
	PollInterval    string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Paths:  loadPathConfig(),
		S3:     loadS3Config(),
		Server: loadServerConfig(),
		Queue:  loadQueueConfig(),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func loadPathConfig() PathConfig {
	return PathConfig{
		RootDirectory: getEnvOrDefault("WEBGWAS_ROOT_DIRECTORY", "./data"),
	}
}

func loadS3Config() S3Config {
	return S3Config{
		Bucket:     getEnvOrDefault("WEBGWAS_S3_BUCKET", ""),
		ResultPath: getEnvOrDefault("WEBGWAS_S3_RESULT_PATH", "results"),
		DryRun:     getEnvBoolOrDefault("WEBGWAS_DRY_RUN", true),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("WEBGWAS_PORT", "8080"),
	}
}

func loadQueueConfig() QueueConfig {
	return QueueConfig{
		WorkerTileCount: getEnvIntOrDefault("WEBGWAS_WORKER_TILES", 16),
		PollInterval:    getEnvOrDefault("WEBGWAS_POLL_INTERVAL", "10ms"),
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Paths.RootDirectory == "" {
		return errors.ConfigInvalid("root directory is required")
	}
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if !cfg.S3.DryRun && cfg.S3.Bucket == "" {
		return errors.ConfigInvalid("s3 bucket is required unless dry_run is set")
	}
	if cfg.Queue.WorkerTileCount <= 0 {
		return errors.ConfigInvalid("worker_tile_count must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
