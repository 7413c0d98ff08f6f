package domain

// AIConfig selects the provider and sampling parameters for a generation
// call. The API key usually arrives via environment substitution in the
// config file.
type AIConfig struct {
	Provider    string  `json:"provider" yaml:"provider"`
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key"`
	Endpoint    string  `json:"endpoint,omitempty" yaml:"endpoint"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float32 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
}

// Supported provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "claude"
	ProviderLocal     = "local"
)
