package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// envKeys maps the environment variables the deployment platform sets to
// their config keys. Variables not listed here are ignored.
var envKeys = map[string]string{
	"CLIENT_ID":                     "client.id",
	"WEBHOOK_PORT":                  "server.port",
	"POSTGRES_HOST":                 "database.host",
	"POSTGRES_PORT":                 "database.port",
	"POSTGRES_DB":                   "database.name",
	"POSTGRES_USER":                 "database.user",
	"POSTGRES_PASSWORD":             "database.password",
	"DATABASE_DRIVER":               "database.driver",
	"REDIS_HOST":                    "redis.host",
	"REDIS_PORT":                    "redis.port",
	"REDIS_PASSWORD":                "redis.password",
	"REDIS_ENABLED":                 "redis.enabled",
	"OPENAI_API_KEY":                "llm.api_key",
	"OPENAI_MODEL":                  "llm.model",
	"LLM_PROVIDER":                  "llm.provider",
	"OLLAMA_URL":                    "llm.ollama_url",
	"WHATSAPP_API_URL":              "whatsapp.api_url",
	"WHATSAPP_TOKEN":                "whatsapp.token",
	"MALAYSIAN_LOAN_WHATSAPP_TOKEN": "whatsapp.client_token",
	"RAG_ENABLED":                   "knowledge.enabled",
	"RAG_STRATEGY":                  "knowledge.strategy",
	"KNOWLEDGE_DIR":                 "knowledge.dir",
}

// Load reads configuration from the given YAML file, then overlays the
// environment variables the platform injects. A missing file is not an
// error; defaults plus environment apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables. Returning "" from the callback
	// skips variables outside the map.
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// validStrategies is the set of recognized retrieval strategies.
var validStrategies = map[Strategy]bool{
	StrategyVector:  true,
	StrategyKeyword: true,
}

// validDrivers is the set of recognized database drivers.
var validDrivers = map[DriverType]bool{
	DriverPostgres: true,
	DriverSQLite:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Client.ID == "" {
		return fmt.Errorf("client.id is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("invalid database.driver %q: must be one of postgres, sqlite", c.Database.Driver)
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		return fmt.Errorf("database.path is required for the sqlite driver")
	}

	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider %q: must be one of openai, ollama", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}

	if !validStrategies[c.Knowledge.Strategy] {
		return fmt.Errorf("invalid knowledge.strategy %q: must be one of vector, keyword", c.Knowledge.Strategy)
	}
	if c.Knowledge.TopK < 0 {
		return fmt.Errorf("knowledge.top_k must be non-negative")
	}
	if c.Knowledge.MinSimilarity < 0 || c.Knowledge.MinSimilarity > 1 {
		return fmt.Errorf("knowledge.min_similarity must be within [0, 1]")
	}
	if c.Knowledge.EmbeddingProvider != "" && !validProviders[c.Knowledge.EmbeddingProvider] {
		return fmt.Errorf("invalid knowledge.embedding_provider %q", c.Knowledge.EmbeddingProvider)
	}

	return nil
}

// WhatsAppToken returns the messaging credential, preferring the
// deployment-specific token over the shared one.
func (c *Config) WhatsAppToken() string {
	if c.WhatsApp.ClientToken != "" {
		return c.WhatsApp.ClientToken
	}
	return c.WhatsApp.Token
}
