package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configuration for the flock CLI.
type Config struct {
	DatabaseURL string
	RedisURL    string
	ScenarioDir string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	cfg := &Config{
		DatabaseURL: getEnv("FLOCK_DATABASE_URL", "postgres://localhost:5432/flock?sslmode=disable"),
		RedisURL:    getEnv("FLOCK_REDIS_URL", "redis://localhost:6379/0"),
		ScenarioDir: getEnv("FLOCK_SCENARIO_DIR", filepath.Join(wd, "scenarios")),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
