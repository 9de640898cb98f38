package config

// DefaultPatterns are the knowledge-base file globs loaded from the
// knowledge directory.
var DefaultPatterns = []string{"*.json", "*.md", "*.txt"}

// DefaultConfig returns a Config with the defaults the bot ships with.
// Credentials have no default and must come from the environment or the
// config file.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			ID: "client_001",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver:  DriverPostgres,
			Host:    "postgres",
			Port:    5432,
			Name:    "malaysian_loan_ai",
			User:    "postgres",
			SSLMode: "disable",
			Path:    "loanbot.db",
		},
		Redis: RedisConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    6379,
			DB:      0,
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenAI,
			Model:       "gpt-3.5-turbo",
			OllamaURL:   "http://localhost:11434",
			MaxTokens:   500,
			Temperature: 0.7,
		},
		WhatsApp: WhatsAppConfig{
			APIURL: "https://gate.whapi.cloud",
		},
		Knowledge: KnowledgeConfig{
			Enabled:           true,
			Strategy:          StrategyVector,
			Dir:               "knowledge_base",
			Patterns:          DefaultPatterns,
			TopK:              3,
			MinSimilarity:     0.3,
			EmbeddingProvider: ProviderOpenAI,
			EmbeddingModel:    "text-embedding-3-small",
		},
	}
}
