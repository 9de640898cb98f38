package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config, saved to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome! Let's configure your loan consultation bot.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Client identity.
	clientPrompt := promptui.Prompt{
		Label:   "Client ID for this deployment",
		Default: cfg.Client.ID,
	}
	clientID, err := clientPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("client id: %w", err)
	}
	cfg.Client.ID = clientID

	// 2. Database driver.
	driverPrompt := promptui.Select{
		Label: "Select database driver",
		Items: []string{"postgres", "sqlite"},
	}
	_, driverStr, err := driverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("driver selection: %w", err)
	}
	cfg.Database.Driver = DriverType(driverStr)

	if cfg.Database.Driver == DriverPostgres {
		hostPrompt := promptui.Prompt{
			Label:   "Postgres host",
			Default: cfg.Database.Host,
		}
		if cfg.Database.Host, err = hostPrompt.Run(); err != nil {
			return nil, fmt.Errorf("database host: %w", err)
		}
		namePrompt := promptui.Prompt{
			Label:   "Postgres database name",
			Default: cfg.Database.Name,
		}
		if cfg.Database.Name, err = namePrompt.Run(); err != nil {
			return nil, fmt.Errorf("database name: %w", err)
		}
	} else {
		pathPrompt := promptui.Prompt{
			Label:   "SQLite database path",
			Default: cfg.Database.Path,
		}
		if cfg.Database.Path, err = pathPrompt.Run(); err != nil {
			return nil, fmt.Errorf("database path: %w", err)
		}
	}

	// 3. LLM provider.
	providerPrompt := promptui.Select{
		Label: "Select completion provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.LLM.Provider = ProviderType(providerStr)
	if cfg.LLM.Provider == ProviderOllama {
		cfg.LLM.Model = "llama3"
		cfg.Knowledge.EmbeddingProvider = ProviderOllama
		cfg.Knowledge.EmbeddingModel = "nomic-embed-text"
	}

	// 4. Retrieval strategy.
	strategyPrompt := promptui.Select{
		Label: "Select knowledge retrieval strategy",
		Items: []string{
			"vector  — embedding similarity ranking",
			"keyword — substring matching, no model needed",
		},
	}
	strategyIdx, _, err := strategyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strategy selection: %w", err)
	}
	strategies := []Strategy{StrategyVector, StrategyKeyword}
	cfg.Knowledge.Strategy = strategies[strategyIdx]

	// 5. Preset knowledge documents.
	presetPrompt := promptui.Select{
		Label: "Include extended preset knowledge (BNM guidelines, banks, rates, schemes)",
		Items: []string{"no", "yes"},
	}
	presetIdx, _, err := presetPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("preset selection: %w", err)
	}
	cfg.Knowledge.IncludePresets = presetIdx == 1

	if cfg.LLM.Provider == ProviderOpenAI && os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Println("\nNote: Set OPENAI_API_KEY in your environment before starting the bot.")
	}
	if os.Getenv("MALAYSIAN_LOAN_WHATSAPP_TOKEN") == "" && os.Getenv("WHATSAPP_TOKEN") == "" {
		fmt.Println("Note: Set MALAYSIAN_LOAN_WHATSAPP_TOKEN (or WHATSAPP_TOKEN) to enable outbound messages.")
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
