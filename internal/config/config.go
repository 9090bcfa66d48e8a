package config

import (
	"os"
	"strconv"
)

// Config holds defaults for the CLI flags, loaded from environment variables.
type Config struct {
	// Dir holds one turn<N> directory per turn.
	Dir     string
	MapPath string
	Workers int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Dir:     envOrDefault("LRLR_CONFIG_DIR", "config"),
		MapPath: envOrDefault("LRLR_MAP", "config/map.yaml"),
		Workers: intOrDefault("LRLR_WORKERS", 32),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOrDefault(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
