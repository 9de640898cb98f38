package cmd

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/embeddings"
)

// embedCacheSize bounds the in-memory embedding memo.
const embedCacheSize = 512

// loadConfig loads and validates the config, providing a friendly hint.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w\nRun `loanbot init` to create a config file", err)
	}
	return cfg, nil
}

// newEmbedder builds the embedder the vector strategy needs. Returns nil
// when the knowledge base is disabled, keyword-only, or missing its
// credential; the knowledge store degrades accordingly.
func newEmbedder(cfg *config.Config, log *zap.Logger) embeddings.Embedder {
	if !cfg.Knowledge.Enabled || cfg.Knowledge.Strategy != config.StrategyVector {
		return nil
	}

	provider := cfg.Knowledge.EmbeddingProvider
	if provider == "" {
		provider = cfg.LLM.Provider
	}

	var embedder embeddings.Embedder
	switch provider {
	case config.ProviderOllama:
		embedder = embeddings.NewOllamaEmbedder(cfg.Knowledge.EmbeddingModel, 768, cfg.LLM.OllamaURL)
	default:
		if cfg.LLM.APIKey == "" {
			log.Warn("no embedding credential set; vector retrieval will be disabled")
			return nil
		}
		embedder = embeddings.NewOpenAIEmbedder(cfg.LLM.APIKey, embeddings.OpenAIModel(cfg.Knowledge.EmbeddingModel))
	}

	return embeddings.NewCached(embedder, embedCacheSize, time.Hour)
}

// llmConfigured reports whether the completion provider has its
// credential. Ollama runs locally and needs none.
func llmConfigured(cfg *config.Config) bool {
	return cfg.LLM.Provider == config.ProviderOllama || cfg.LLM.APIKey != ""
}
