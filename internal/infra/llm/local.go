package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/vietddude/storyforge/internal/core/domain"
)

const defaultLocalEndpoint = "http://localhost:11434/api/generate"

// local proxies generation to a locally running LLM server speaking the
// Ollama generate API. Connection failures here are common (the server may
// simply not be running) and classify as transient.
type local struct {
	cfg    domain.AIConfig
	client *http.Client
}

func newLocal(cfg domain.AIConfig) *local {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultLocalEndpoint
	}
	return &local{cfg: cfg, client: newHTTPClient()}
}

func (p *local) Name() string { return domain.ProviderLocal }

type localRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type localResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (p *local) Generate(ctx context.Context, req Request) (string, error) {
	body := localRequest{
		Model:  p.cfg.Model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
	}
	if p.cfg.Temperature > 0 {
		body.Options = map[string]any{"temperature": p.cfg.Temperature}
	}

	var out localResponse
	if err := postJSON(ctx, p.client, p.cfg.Endpoint, nil, body, &out); err != nil {
		return "", err
	}
	if out.Response == "" {
		return "", errors.New("local: empty response from model")
	}
	return out.Response, nil
}
