package config

import (
	"time"

	"github.com/vietddude/storyforge/internal/connectivity"
	"github.com/vietddude/storyforge/internal/core/domain"
	redisclient "github.com/vietddude/storyforge/internal/infra/redis"
	"github.com/vietddude/storyforge/internal/infra/storage/postgres"
	"github.com/vietddude/storyforge/internal/resilience/retry"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server       ServerConfig        `yaml:"server"`
	Database     postgres.Config     `yaml:"database"`
	Redis        redisclient.Config  `yaml:"redis"`
	Logging      LoggingConfig       `yaml:"logging"`
	AI           domain.AIConfig     `yaml:"ai"`
	Retry        RetryConfig         `yaml:"retry"`
	Connectivity connectivity.Config `yaml:"connectivity"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// RetryConfig holds the default retry policy for generation calls.
type RetryConfig struct {
	MaxRetries    int           `yaml:"max_retries"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	Jitter        bool          `yaml:"jitter"`
}

// Policy converts the config into an executable retry policy.
func (c RetryConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxRetries:    c.MaxRetries,
		InitialDelay:  c.InitialDelay,
		MaxDelay:      c.MaxDelay,
		BackoffFactor: c.BackoffFactor,
		Jitter:        c.Jitter,
	}
}
