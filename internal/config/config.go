// Package config loads the syllabus settings from the environment.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Ledger backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config holds the settings shared by every command.
// Empty paths fall back to the engine defaults under Dir.
type Config struct {
	Dir           string `env:"SYLLABUS_DIR" envDefault:"."`
	Catalog       string `env:"SYLLABUS_CATALOG"`
	Lessons       string `env:"SYLLABUS_LESSONS"`
	Workspace     string `env:"SYLLABUS_WORKSPACE"`
	Ledger        string `env:"SYLLABUS_LEDGER"`
	LedgerBackend string `env:"SYLLABUS_LEDGER_BACKEND" envDefault:"file"`
	RedisAddr     string `env:"SYLLABUS_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"SYLLABUS_REDIS_PASSWORD"`
	RedisDB       int    `env:"SYLLABUS_REDIS_DB" envDefault:"0"`
	Learner       string `env:"SYLLABUS_LEARNER" envDefault:"default"`
	Debug         bool   `env:"SYLLABUS_DEBUG"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a validated Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.LedgerBackend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown ledger backend %q (supported: file, redis)", c.LedgerBackend)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("redis db must not be negative, got %d", c.RedisDB)
	}
	return nil
}

// Resolve returns p relative to Dir unless it is empty or absolute.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, p)
}
