// Package app wires the review stages into one pipeline run: resolve the
// target, filter and collect the diffs, redact secrets, check the token
// budget, audit with the provider chain, and aggregate the report.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/reviewgate/internal/audit"
	"github.com/sevigo/reviewgate/internal/budget"
	"github.com/sevigo/reviewgate/internal/collector"
	"github.com/sevigo/reviewgate/internal/config"
	"github.com/sevigo/reviewgate/internal/core"
	"github.com/sevigo/reviewgate/internal/db"
	"github.com/sevigo/reviewgate/internal/filter"
	"github.com/sevigo/reviewgate/internal/gitutil"
	"github.com/sevigo/reviewgate/internal/llm"
	"github.com/sevigo/reviewgate/internal/redact"
	"github.com/sevigo/reviewgate/internal/report"
	"github.com/sevigo/reviewgate/internal/storage"
	"github.com/sevigo/reviewgate/internal/target"
)

// App holds the main application components.
type App struct {
	Cfg          *config.Config
	Logger       *slog.Logger
	Git          *gitutil.Client
	Collector    *collector.Collector
	Providers    []llm.Provider
	Prompts      *llm.PromptManager
	Orchestrator *audit.Orchestrator

	// History and DB are nil when no database DSN is configured.
	History storage.Store
	DB      *db.DB
}

// NewApp assembles the application from its wired components.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	git *gitutil.Client,
	col *collector.Collector,
	providers []llm.Provider,
	prompts *llm.PromptManager,
	orchestrator *audit.Orchestrator,
	history storage.Store,
	dbConn *db.DB,
) *App {
	return &App{
		Cfg:          cfg,
		Logger:       logger,
		Git:          git,
		Collector:    col,
		Providers:    providers,
		Prompts:      prompts,
		Orchestrator: orchestrator,
		History:      history,
		DB:           dbConn,
	}
}

// RunReview executes the whole pipeline for one target. It returns a report
// for every run that got past target resolution; stage failures are recorded
// in the report and surface through its ERROR status rather than as an error.
func (a *App) RunReview(ctx context.Context, req target.Request) (core.ReviewReport, error) {
	started := time.Now()

	tgt, err := target.Resolve(req)
	if err != nil {
		return core.ReviewReport{}, err
	}
	a.Logger.Info("starting review", "target", tgt.String())

	var runErrors []string

	paths := a.Git.ChangedPaths(ctx, tgt)
	filtered := filter.Apply(paths, filter.Options{IgnoreGlobs: a.Cfg.IgnoreGlobs})

	skipped := make([]core.SkippedFile, 0, len(filtered.Rejected))
	for _, rej := range filtered.Rejected {
		skipped = append(skipped, core.SkippedFile{Path: rej.Path, Reason: rej.Reason})
	}

	collected := a.Collector.Collect(ctx, tgt, filtered.Accepted, a.Cfg.Guardrails, a.Cfg.ContextLines)
	skipped = append(skipped, collected.Skipped...)

	sanitized := make([]core.SanitizedFile, 0, len(collected.Files))
	var redactions []core.RedactionReport
	for _, f := range collected.Files {
		clean, red := redact.File(f)
		sanitized = append(sanitized, clean)
		if red != nil {
			a.Logger.Info("redacted secrets", "file", red.Path, "count", red.RedactedCount)
			redactions = append(redactions, *red)
		}
	}

	aiEnabled := a.aiEnabled(tgt)
	var results []core.FileAuditResult
	if aiEnabled && len(sanitized) > 0 {
		results, runErrors = a.runAudit(ctx, sanitized, runErrors)
	} else if !aiEnabled {
		a.Logger.Info("AI audit disabled for this target", "target", tgt.String())
	}

	rep := report.Aggregate(report.Input{
		Target:            tgt,
		AIEnabled:         aiEnabled,
		Results:           results,
		Skipped:           skipped,
		Redactions:        redactions,
		Errors:            runErrors,
		TotalChangedLines: collected.TotalChangedLines,
		StartedAt:         started,
	})

	a.persistReport(ctx, rep)
	return rep, nil
}

// aiEnabled applies the target policy: staged changes are work in progress,
// so they skip the model unless explicitly forced.
func (a *App) aiEnabled(tgt core.ReviewTarget) bool {
	if !a.Cfg.AIEnabled {
		return false
	}
	if tgt.Mode == core.TargetStaged && !a.Cfg.ForceAI {
		return false
	}
	return true
}

func (a *App) runAudit(ctx context.Context, files []core.SanitizedFile, runErrors []string) ([]core.FileAuditResult, []string) {
	systemPrompt, err := a.Prompts.SystemPrompt()
	if err != nil {
		return nil, append(runErrors, fmt.Sprintf("rendering system prompt: %v", err))
	}

	limit := a.Cfg.TokenLimitOverride
	if limit <= 0 {
		limit = providerContextLimit(a.Providers)
	}

	est, err := budget.Check(systemPrompt, files, limit)
	if err != nil {
		a.Logger.Error("token budget check failed", "tokens", est.Tokens, "limit", est.Limit, "error", err)
		return nil, append(runErrors, err.Error())
	}
	if est.Outcome == budget.ProceedWithWarning {
		a.Logger.Warn("payload close to context limit", "tokens", est.Tokens, "limit", est.Limit)
	}

	results, err := a.Orchestrator.Run(ctx, files)
	if err != nil {
		return nil, append(runErrors, err.Error())
	}
	return results, runErrors
}

// providerContextLimit picks the budget ceiling from the first available
// provider, the one that will actually serve the calls. With none available
// it falls back to the primary's window so the budget check still runs.
func providerContextLimit(providers []llm.Provider) int {
	for _, p := range providers {
		if p.Available() {
			return p.ContextLimit()
		}
	}
	if len(providers) > 0 {
		return providers[0].ContextLimit()
	}
	return 0
}

// persistReport saves the finished report to the history store when one is
// configured. Persistence failures are logged, never fatal.
func (a *App) persistReport(ctx context.Context, rep core.ReviewReport) {
	if a.History == nil {
		return
	}
	meta, err := a.Git.Meta()
	if err != nil {
		a.Logger.Warn("cannot determine repository for history store", "error", err)
		return
	}
	if err := a.History.SaveReport(ctx, meta.Root, rep); err != nil {
		a.Logger.Warn("failed to persist report", "repo", meta.Root, "error", err)
	}
}
