package llm

import (
	"fmt"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
)

// New creates the completion provider selected by cfg. A missing OpenAI
// credential is not a construction error; the provider reports
// ErrNotConfigured on use instead.
func New(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil

	case config.ProviderOllama:
		baseURL := cfg.OllamaURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return NewOllamaProvider(baseURL, cfg.Model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}
}
