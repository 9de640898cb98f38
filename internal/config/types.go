package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Strategy selects how the knowledge base ranks documents against a query.
type Strategy string

const (
	StrategyVector  Strategy = "vector"
	StrategyKeyword Strategy = "keyword"
)

// DriverType identifies a relational database driver.
type DriverType string

const (
	DriverPostgres DriverType = "postgres"
	DriverSQLite   DriverType = "sqlite"
)

// Config is the top-level bot configuration, corresponding to config.yaml.
type Config struct {
	Client    ClientConfig    `yaml:"client" koanf:"client"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Database  DatabaseConfig  `yaml:"database" koanf:"database"`
	Redis     RedisConfig     `yaml:"redis" koanf:"redis"`
	LLM       LLMConfig       `yaml:"llm" koanf:"llm"`
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp" koanf:"whatsapp"`
	Knowledge KnowledgeConfig `yaml:"knowledge" koanf:"knowledge"`
}

// ClientConfig identifies the tenant this deployment serves.
type ClientConfig struct {
	ID string `yaml:"id" koanf:"id"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`
}

// DatabaseConfig holds relational storage settings. Driver selects
// postgres for deployments or sqlite for local runs and tests.
type DatabaseConfig struct {
	Driver   DriverType `yaml:"driver" koanf:"driver"`
	Host     string     `yaml:"host" koanf:"host"`
	Port     int        `yaml:"port" koanf:"port"`
	Name     string     `yaml:"name" koanf:"name"`
	User     string     `yaml:"user" koanf:"user"`
	Password string     `yaml:"password" koanf:"password"`
	SSLMode  string     `yaml:"sslmode" koanf:"sslmode"`
	Path     string     `yaml:"path" koanf:"path"`
}

// RedisConfig holds cache settings. When Enabled is false the bot runs
// without a cache and the health check reports it as disconnected.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" koanf:"enabled"`
	Host     string `yaml:"host" koanf:"host"`
	Port     int    `yaml:"port" koanf:"port"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db"`
}

// LLMConfig holds completion-API settings.
type LLMConfig struct {
	Provider    ProviderType `yaml:"provider" koanf:"provider"`
	Model       string       `yaml:"model" koanf:"model"`
	APIKey      string       `yaml:"api_key" koanf:"api_key"`
	OllamaURL   string       `yaml:"ollama_url" koanf:"ollama_url"`
	MaxTokens   int          `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature float32      `yaml:"temperature" koanf:"temperature"`
}

// WhatsAppConfig holds messaging-gateway settings. ClientToken is the
// deployment-specific credential and wins over the shared Token.
type WhatsAppConfig struct {
	APIURL      string `yaml:"api_url" koanf:"api_url"`
	Token       string `yaml:"token" koanf:"token"`
	ClientToken string `yaml:"client_token" koanf:"client_token"`
}

// KnowledgeConfig holds retrieval settings for the loan knowledge base.
type KnowledgeConfig struct {
	Enabled           bool         `yaml:"enabled" koanf:"enabled"`
	Strategy          Strategy     `yaml:"strategy" koanf:"strategy"`
	Dir               string       `yaml:"dir" koanf:"dir"`
	Patterns          []string     `yaml:"patterns" koanf:"patterns"`
	IncludePresets    bool         `yaml:"include_presets" koanf:"include_presets"`
	TopK              int          `yaml:"top_k" koanf:"top_k"`
	MinSimilarity     float32      `yaml:"min_similarity" koanf:"min_similarity"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
}
