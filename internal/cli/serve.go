package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"mood_journal/internal/ai"
	"mood_journal/internal/config"
	"mood_journal/internal/handlers"
	"mood_journal/internal/storage"
	"mood_journal/internal/usecases"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	logger := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	client := ai.NewHuggingFaceClient(
		cfg.HFToken,
		cfg.HFSentimentURL,
		cfg.HFNERURL,
		ai.WithRetryPolicy(ai.RetryPolicy{
			MaxAttempts: cfg.RetryMaxAttempts,
			Retryable:   ai.IsRetryableStatus,
			Backoff:     ai.LinearBackoff(cfg.RetryBackoffUnit),
		}),
		ai.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		ai.WithLogger(logger),
	)

	analyzer := usecases.NewAnalyzer(client, usecases.AnalyzerOptions{
		NeutralThreshold: cfg.SentimentNeutralThreshold,
		EntityMinScore:   cfg.EntityMinScore,
		Timeout:          cfg.AnalysisTimeout,
	})
	service := usecases.NewJournalService(repo, analyzer, cfg.MinContentLength, logger)

	mux := http.NewServeMux()
	handlers.NewJournalHandler(service, logger).Register(mux)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AnalysisTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ListenAddr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// openRepository picks the journal store named by STORAGE. Postgres is
// pinged and migrated before use.
func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (usecases.JournalRepository, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, entries are lost on restart")
		return storage.NewMemoryJournalStorage(), func() {}, nil
	}

	pool, err := connectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	if err := storage.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("connected to db successfully")

	return storage.NewJournalStorage(pool), pool.Close, nil
}

func connectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping db: %w", err)
	}
	return pool, nil
}
