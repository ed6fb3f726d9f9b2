package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"mood_journal/internal/config"
	"mood_journal/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New()
		logger := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

		if cfg.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required")
		}

		pool, err := connectPostgres(cmd.Context(), cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := storage.Migrate(cmd.Context(), pool); err != nil {
			return err
		}

		logger.Info("migrations applied")
		return nil
	},
}
