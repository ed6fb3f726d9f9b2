package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mood_journal",
	Short: "Journaling service with sentiment and keyword analysis",
	Long: `mood_journal stores journal entries in Postgres and tags each one with a
sentiment and named-entity keywords from Hugging Face inference models.
Running it without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
