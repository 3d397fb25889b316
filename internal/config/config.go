// Package config provides YAML-based application configuration with
// environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

// Config is the application configuration.
type Config struct {
	DBPath          string `yaml:"db_path" env:"DB_PATH"`
	CatalogPath     string `yaml:"catalog_path" env:"CATALOG"`
	AssetsDir       string `yaml:"assets_dir" env:"ASSETS"`
	ImageCacheMB    int    `yaml:"image_cache_mb" env:"IMAGE_CACHE_MB"`
	PrefetchWorkers int    `yaml:"prefetch_workers" env:"PREFETCH_WORKERS"`
	TickRate        int    `yaml:"tick_rate" env:"TICK_RATE"`
	LogLevel        string `yaml:"log_level" env:"LOG_LEVEL"`

	SSH SSHConfig `yaml:"ssh" envPrefix:"SSH_"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address" env:"ADDR"`
	HostKey     string        `yaml:"host_key" env:"HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:          "~/.quiz/quiz.db",
		AssetsDir:       "~/.quiz/assets",
		ImageCacheMB:    100,
		PrefetchWorkers: 4,
		TickRate:        30,
		LogLevel:        "info",
		SSH: SSHConfig{
			Address:     ":23234",
			HostKey:     "~/.quiz/host_key",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// ImageCacheBytes returns the image cache ceiling in bytes.
func (c Config) ImageCacheBytes() int64 {
	return int64(c.ImageCacheMB) << 20
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path is empty: %w", core.ErrConfiguration)
	}
	if c.ImageCacheMB < 1 {
		return fmt.Errorf("config: image_cache_mb must be positive, got %d: %w", c.ImageCacheMB, core.ErrConfiguration)
	}
	if c.PrefetchWorkers < 1 {
		return fmt.Errorf("config: prefetch_workers must be positive, got %d: %w", c.PrefetchWorkers, core.ErrConfiguration)
	}
	if c.TickRate < 1 || c.TickRate > 120 {
		return fmt.Errorf("config: tick_rate must be in [1,120], got %d: %w", c.TickRate, core.ErrConfiguration)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level %q: %w", c.LogLevel, core.ErrConfiguration)
	}
	return nil
}
