package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vietddude/storyforge/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.AI.Provider != domain.ProviderLocal {
		t.Errorf("AI.Provider = %q, want local", cfg.AI.Provider)
	}
	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("Retry.MaxRetries = %d, want 3", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.InitialDelay != 1*time.Second {
		t.Errorf("Retry.InitialDelay = %v, want 1s", cfg.Retry.InitialDelay)
	}
	if cfg.Retry.MaxDelay != 30*time.Second {
		t.Errorf("Retry.MaxDelay = %v, want 30s", cfg.Retry.MaxDelay)
	}
	if !cfg.Retry.Jitter {
		t.Error("Retry.Jitter should default to true")
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-secret")
	path := writeConfig(t, `
ai:
  provider: openai
  model: gpt-4o
  api_key: ${TEST_API_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "sk-secret" {
		t.Errorf("APIKey = %q, want expanded env value", cfg.AI.APIKey)
	}
}

func TestLoadRejectsBadRetryConfig(t *testing.T) {
	// MaxDelay below InitialDelay (both in nanoseconds).
	path := writeConfig(t, `
retry:
  max_retries: 2
  initial_delay: 2000000000
  max_delay: 1000000000
  backoff_factor: 2.0
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for max_delay < initial_delay")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRetryConfigPolicy(t *testing.T) {
	rc := RetryConfig{
		MaxRetries:    5,
		InitialDelay:  time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 3.0,
		Jitter:        true,
	}
	p := rc.Policy()
	if p.MaxRetries != 5 || p.InitialDelay != time.Second ||
		p.MaxDelay != time.Minute || p.BackoffFactor != 3.0 || !p.Jitter {
		t.Errorf("Policy() = %+v", p)
	}
}
