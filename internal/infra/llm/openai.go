package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/vietddude/storyforge/internal/core/domain"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

type openAI struct {
	cfg    domain.AIConfig
	client *http.Client
}

func newOpenAI(cfg domain.AIConfig) *openAI {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultOpenAIEndpoint
	}
	return &openAI{cfg: cfg, client: newHTTPClient()}
}

func (p *openAI) Name() string { return domain.ProviderOpenAI }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float32         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (p *openAI) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openAIMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: req.Prompt})

	body := openAIRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	}

	headers := map[string]string{"Authorization": "Bearer " + p.cfg.APIKey}

	var out openAIResponse
	if err := postJSON(ctx, p.client, p.cfg.Endpoint, headers, body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai: empty choices in response")
	}
	return out.Choices[0].Message.Content, nil
}
