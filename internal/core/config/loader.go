package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/storyforge/internal/core/domain"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.Retry.InitialDelay <= 0 {
		return nil, fmt.Errorf("retry.initial_delay must be positive")
	}
	if cfg.Retry.MaxDelay < cfg.Retry.InitialDelay {
		return nil, fmt.Errorf("retry.max_delay must be >= retry.initial_delay")
	}
	if cfg.Retry.BackoffFactor <= 1 {
		return nil, fmt.Errorf("retry.backoff_factor must be > 1")
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if cfg.AI.Provider == "" {
		cfg.AI.Provider = domain.ProviderLocal
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "llama3"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 2048
	}

	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 3
	}
	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = 1 * time.Second
		cfg.Retry.Jitter = true
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = 30 * time.Second
	}
	if cfg.Retry.BackoffFactor == 0 {
		cfg.Retry.BackoffFactor = 2.0
	}
}
