// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/reviewgate/internal/app"
	"github.com/sevigo/reviewgate/internal/collector"
	"github.com/sevigo/reviewgate/internal/config"
	"github.com/sevigo/reviewgate/internal/gitutil"
	"github.com/sevigo/reviewgate/internal/llm"
	"github.com/sevigo/reviewgate/internal/logger"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(_ context.Context) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logWriter := provideLogWriter(cfg)
	slogLogger := logger.NewLogger(cfg.Logging, logWriter)

	// Git client + repo-level config overrides
	gitClient := gitutil.NewClient(slogLogger)
	mergeRepoConfig(cfg, gitClient, slogLogger)

	// Provider chain
	providers, err := provideProviders(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Prompt Manager
	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}

	// Result cache
	auditCache, err := provideCache(cfg, slogLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open result cache: %w", err)
	}

	// Orchestrator
	orchestrator := provideOrchestrator(cfg, providers, auditCache, promptMgr, slogLogger)

	// Diff collector
	col := collector.New(gitClient, slogLogger)

	// Optional history database
	dbConn, dbCleanup, err := provideDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	history := provideHistory(dbConn)

	// App
	application := app.NewApp(cfg, slogLogger, gitClient, col, providers, promptMgr, orchestrator, history, dbConn)

	cleanup := func() {
		dbCleanup()
	}

	return application, cleanup, nil
}
