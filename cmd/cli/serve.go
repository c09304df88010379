package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sevigo/reviewgate/internal/server"
	"github.com/sevigo/reviewgate/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report history over a read-only HTTP API",
	Long: `Serve the report history over a read-only HTTP API.

Requires a configured history database (RG_DATABASE_DSN). Endpoints:
  GET /health
  GET /api/v1/reports?repo=...&limit=N
  GET /api/v1/reports/latest?repo=...&target=...`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	appInstance, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	if appInstance.History == nil {
		return fmt.Errorf("no history database configured: set RG_DATABASE_DSN to enable the report API")
	}

	srv := server.NewServer(ctx, appInstance.Cfg, appInstance.History, appInstance.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		slog.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	return srv.Stop()
}
