// Package llm contains the HTTP clients for the supported text-generation
// providers. Providers surface transport failures and HTTP status codes in a
// form the retry classifier understands, so callers can wrap Generate in the
// resilience layer without provider-specific error handling.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vietddude/storyforge/internal/core/domain"
	"github.com/vietddude/storyforge/internal/metrics"
	"github.com/vietddude/storyforge/internal/resilience/retry"
)

// Request is a single generation call.
type Request struct {
	Prompt string
	System string
}

// Provider generates text for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// New returns the provider selected by cfg.
func New(cfg domain.AIConfig) (Provider, error) {
	var p Provider
	switch cfg.Provider {
	case domain.ProviderOpenAI:
		p = newOpenAI(cfg)
	case domain.ProviderAnthropic:
		p = newAnthropic(cfg)
	case domain.ProviderLocal:
		p = newLocal(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.Provider)
	}
	return &instrumented{p: p}, nil
}

// instrumented records call counts and latency around a provider.
type instrumented struct {
	p Provider
}

func (i *instrumented) Name() string { return i.p.Name() }

func (i *instrumented) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := i.p.Generate(ctx, req)
	metrics.LLMRequestDuration.WithLabelValues(i.p.Name()).Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LLMRequestsTotal.WithLabelValues(i.p.Name(), status).Inc()
	return out, err
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// postJSON sends a JSON body and decodes a JSON response. Non-2xx statuses
// become *retry.StatusError so the default retry predicate can classify
// them; transport errors pass through untouched.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &retry.StatusError{Code: resp.StatusCode, Message: string(excerpt)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
