package wire

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sevigo/reviewgate/internal/audit"
	"github.com/sevigo/reviewgate/internal/cache"
	"github.com/sevigo/reviewgate/internal/config"
	"github.com/sevigo/reviewgate/internal/core"
	"github.com/sevigo/reviewgate/internal/db"
	"github.com/sevigo/reviewgate/internal/gitutil"
	"github.com/sevigo/reviewgate/internal/llm"
	"github.com/sevigo/reviewgate/internal/logger"
	"github.com/sevigo/reviewgate/internal/storage"
)

// mergeRepoConfig layers the repo-level .reviewgate.yml overrides onto the
// global configuration when the working directory is inside a git repo.
func mergeRepoConfig(cfg *config.Config, git *gitutil.Client, slogLogger *slog.Logger) {
	meta, err := git.Meta()
	if err != nil {
		return
	}
	rc, err := config.LoadRepoConfig(meta.Root)
	if err != nil {
		if !errors.Is(err, config.ErrRepoConfigNotFound) {
			slogLogger.Warn("ignoring unreadable .reviewgate.yml", "error", err)
		}
		return
	}
	rc.Apply(cfg)
	slogLogger.Debug("applied repo-level configuration", "repo", meta.Root)
}

// provideProviders builds the ordered provider chain: the configured primary
// first, fallbacks after it with their default models.
func provideProviders(cfg *config.Config) ([]llm.Provider, error) {
	primary, err := llm.New(cfg.Provider, cfg.Model, cfg.CallTimeout)
	if err != nil {
		return nil, fmt.Errorf("configuring primary provider: %w", err)
	}
	providers := []llm.Provider{primary}

	for _, name := range cfg.FallbackProviders {
		if name == cfg.Provider {
			continue
		}
		fallback, err := llm.New(name, "", cfg.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("configuring fallback provider: %w", err)
		}
		providers = append(providers, fallback)
	}
	return providers, nil
}

// provideCache returns a nil interface when caching is disabled so the
// orchestrator can distinguish "no cache" from an empty one.
func provideCache(cfg *config.Config, slogLogger *slog.Logger) (audit.Cache, error) {
	if !cfg.CacheEnabled {
		return nil, nil
	}
	store, err := cache.NewStore(cfg.CacheDir, slogLogger)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func provideOrchestrator(cfg *config.Config, providers []llm.Provider, auditCache audit.Cache, prompts *llm.PromptManager, slogLogger *slog.Logger) *audit.Orchestrator {
	return audit.NewOrchestrator(providers, auditCache, prompts, slogLogger, audit.Options{
		MaxAttempts:    cfg.MaxAttempts,
		MaxConcurrency: cfg.MaxConcurrency,
		CallTimeout:    cfg.CallTimeout,
		PromptVersion:  cfg.PromptVersion,
		ToolVersion:    core.Version,
	})
}

// provideDatabase opens the optional history database. An empty DSN disables
// it; callers get nil handles and a no-op cleanup.
func provideDatabase(cfg *config.Config) (*db.DB, func(), error) {
	if cfg.Database.DSN == "" {
		return nil, func() {}, nil
	}
	return db.NewDatabase(&cfg.Database)
}

func provideHistory(dbConn *db.DB) storage.Store {
	if dbConn == nil {
		return nil
	}
	return storage.NewStore(dbConn.DB)
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stdout":
		return os.Stdout
	case "file":
		f, _ := os.OpenFile("reviewgate.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		return f
	default:
		return os.Stderr
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}
