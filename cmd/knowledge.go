package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/knowledge"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect and exercise the loan knowledge base",
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the loaded knowledge documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		docs := knowledge.Load(cfg.Knowledge, zap.NewNop())
		for i, doc := range docs {
			fmt.Printf("%2d. %s\n", i, doc.Title)
		}
		fmt.Printf("\n%d documents (strategy: %s)\n", len(docs), cfg.Knowledge.Strategy)
		return nil
	},
}

var knowledgeIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed every document and report the index size",
	Long: `Runs each knowledge document through the configured embedder, the same
way serve does at startup. Useful for pre-flighting credentials before a
deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := zap.NewNop()
		embedder := newEmbedder(cfg, log)
		if embedder == nil {
			return fmt.Errorf("vector strategy not configured: set knowledge.strategy to vector and provide an embedding credential")
		}

		docs := knowledge.Load(cfg.Knowledge, log)
		if len(docs) == 0 {
			fmt.Println("No documents to index.")
			return nil
		}

		bar := progressbar.NewOptions(len(docs),
			progressbar.OptionSetDescription("Embedding documents"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		ctx := cmd.Context()
		for i, doc := range docs {
			if _, err := embedder.Embed(ctx, []string{doc.EmbedText()}); err != nil {
				return fmt.Errorf("embedding %q: %w", doc.Title, err)
			}
			bar.Describe(doc.Title)
			_ = bar.Set(i + 1)
		}
		_ = bar.Finish()

		fmt.Printf("Indexed %d documents (%s, %d dimensions)\n", len(docs), embedder.Name(), embedder.Dimensions())
		return nil
	},
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base from the command line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		topK, _ := cmd.Flags().GetInt("top-k")

		log := zap.NewNop()
		ks := knowledge.New(cmd.Context(), cfg.Knowledge, newEmbedder(cfg, log), log)
		if !ks.Enabled() {
			return fmt.Errorf("knowledge base is disabled")
		}

		matches, err := ks.Search(cmd.Context(), args[0], topK)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(matches) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		for _, m := range matches {
			fmt.Printf("%.3f  %s\n       %s\n", m.Score, m.Document.Title, m.Document.Body)
		}
		return nil
	},
}

func init() {
	knowledgeSearchCmd.Flags().Int("top-k", 3, "maximum number of results")
	knowledgeCmd.AddCommand(knowledgeListCmd, knowledgeIndexCmd, knowledgeSearchCmd)
	rootCmd.AddCommand(knowledgeCmd)
}
