package cmd

import (
	"github.com/spf13/cobra"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize bot configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the bot and writes a config.yaml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
