// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/vaultgraph/internal/graph"
	"github.com/starford/vaultgraph/internal/index"
	"github.com/starford/vaultgraph/internal/noteservice"
	"github.com/starford/vaultgraph/internal/storage"
)

// Run opens the vault, builds its link graph into the index, and, when the
// vault is watched, keeps the graph current until ctx is cancelled or a
// shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.Bool("vault_watch", cfg.Vault.Watch),
		slog.Int("cache_size", cfg.Vault.CacheSize),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.Open(cfg.Vault.Path, cfg.Vault.StorageOptions()...)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	svc := noteservice.NewService(store, db, logger)

	g, err := svc.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("initial sync: %w", err)
	}
	reportGraph(logger, g)

	vault := store.Config()
	if !vault.WatchEnabled {
		logger.Info("Vault indexed", slog.String("vault", vault.Name))
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return index.Watch(egCtx, db, store, logger,
			func(kind, path string) {
				logger.Debug("note changed", slog.String("kind", kind), slog.String("path", path))
			},
			func(g *graph.Graph) {
				svc.SetGraph(g)
				reportGraph(logger, g)
			})
	})

	// Handle shutdown signals.
	eg.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-egCtx.Done():
		}
		cancel()
		return nil
	})

	if err := eg.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watcher stopped", slog.String("vault", vault.Name))
	return nil
}

func reportGraph(logger *slog.Logger, g *graph.Graph) {
	st := g.Stats()
	logger.Info("Link graph built",
		slog.Int("documents", st.Documents),
		slog.Int("references", st.References),
		slog.Int("targets", st.Targets),
		slog.Int("broken", st.Broken))

	for source, targets := range g.Broken {
		logger.Warn("broken links",
			slog.String("source", source),
			slog.Any("targets", targets))
	}
}
