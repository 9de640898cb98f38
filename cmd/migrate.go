package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Opens the configured database and applies the schema. Statements are idempotent, so re-running is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		fmt.Printf("Migrations applied (%s)\n", database.Driver())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
