package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/vietddude/storyforge/internal/core/domain"
)

const (
	defaultAnthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion         = "2023-06-01"
)

type anthropic struct {
	cfg    domain.AIConfig
	client *http.Client
}

func newAnthropic(cfg domain.AIConfig) *anthropic {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultAnthropicEndpoint
	}
	return &anthropic{cfg: cfg, client: newHTTPClient()}
}

func (p *anthropic) Name() string { return domain.ProviderAnthropic }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (p *anthropic) Generate(ctx context.Context, req Request) (string, error) {
	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	body := anthropicRequest{
		Model:       p.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: p.cfg.Temperature,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}

	headers := map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var out anthropicResponse
	if err := postJSON(ctx, p.client, p.cfg.Endpoint, headers, body, &out); err != nil {
		return "", err
	}
	if len(out.Content) == 0 {
		return "", errors.New("anthropic: empty content in response")
	}
	return out.Content[0].Text, nil
}
