// Package audit drives the model calls for a review run: one audit per
// sanitized file, with caching, bounded retries, provider fallback, and a
// fixed concurrency ceiling.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/reviewgate/internal/cache"
	"github.com/sevigo/reviewgate/internal/core"
	"github.com/sevigo/reviewgate/internal/llm"
)

// Cache is the result store the orchestrator consults before calling a
// provider. A nil Cache disables caching entirely.
type Cache interface {
	Get(key string) (core.AuditResult, bool)
	Put(key string, in cache.KeyInput, result core.AuditResult)
}

// Options tune a single orchestrator instance.
type Options struct {
	MaxAttempts    int
	MaxConcurrency int
	CallTimeout    time.Duration
	RetryBaseDelay time.Duration
	PromptVersion  string
	ToolVersion    string
}

const maxRetryDelay = 8 * time.Second

// Orchestrator fans sanitized files out to the provider chain. The first
// provider is primary; the rest are fallbacks, tried in order, each with its
// own retry budget.
type Orchestrator struct {
	providers []llm.Provider
	cache     Cache
	prompts   *llm.PromptManager
	logger    *slog.Logger
	opts      Options
}

// NewOrchestrator wires an orchestrator. Out-of-range options are clamped to
// usable minimums rather than rejected.
func NewOrchestrator(providers []llm.Provider, store Cache, prompts *llm.PromptManager, logger *slog.Logger, opts Options) *Orchestrator {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 500 * time.Millisecond
	}
	return &Orchestrator{
		providers: providers,
		cache:     store,
		prompts:   prompts,
		logger:    logger,
		opts:      opts,
	}
}

// Run audits every file and returns one result per input, in input order.
// Files are processed in batches of MaxConcurrency with a join barrier
// between batches. A failing file never cancels its siblings; it yields an
// ERROR result instead.
func (o *Orchestrator) Run(ctx context.Context, files []core.SanitizedFile) ([]core.FileAuditResult, error) {
	systemPrompt, err := o.prompts.SystemPrompt()
	if err != nil {
		return nil, fmt.Errorf("rendering system prompt: %w", err)
	}

	results := make([]core.FileAuditResult, len(files))
	for start := 0; start < len(files); start += o.opts.MaxConcurrency {
		end := min(start+o.opts.MaxConcurrency, len(files))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = o.auditFile(ctx, files[i], systemPrompt)
				return nil
			})
		}
		_ = g.Wait() // workers report failures as ERROR results, never as errors

		o.logger.Info("audit progress", "done", end, "total", len(files))
	}
	return results, nil
}

func (o *Orchestrator) auditFile(ctx context.Context, file core.SanitizedFile, systemPrompt string) core.FileAuditResult {
	start := time.Now()

	userPrompt, err := o.prompts.UserPrompt(llm.UserPromptData{Path: file.Path, Patch: file.Content})
	if err != nil {
		return errorFileResult(file.Path, fmt.Sprintf("rendering prompt: %v", err), start)
	}

	var lastErr error
	for _, provider := range o.providers {
		if !provider.Available() {
			o.logger.Warn("provider not configured, skipping", "provider", provider.Name(), "file", file.Path)
			lastErr = fmt.Errorf("provider %s is not configured", provider.Name())
			continue
		}

		keyIn := cache.KeyInput{
			Provider:      provider.Name(),
			Model:         provider.Model(),
			PromptVersion: o.opts.PromptVersion,
			ToolVersion:   o.opts.ToolVersion,
			FilePath:      file.Path,
			SystemPrompt:  systemPrompt,
			Payload:       file.Content,
		}
		key := cache.Key(keyIn)

		if o.cache != nil {
			if cached, hit := o.cache.Get(key); hit {
				// Cached values pass through the same coercions as live
				// replies; an out-of-domain entry counts as a miss.
				if result, ok := llm.CoerceCached(cached); ok {
					o.logger.Debug("cache hit", "provider", provider.Name(), "file", file.Path)
					return core.FileAuditResult{
						FilePath: file.Path,
						Result:   result,
						Duration: time.Since(start),
						Cached:   true,
					}
				}
				o.logger.Warn("cached result failed revalidation, treating as miss",
					"provider", provider.Name(), "file", file.Path)
			}
		}

		reply, err := o.callWithRetry(ctx, provider, systemPrompt, userPrompt, file.Path)
		if err != nil {
			if !llm.IsRetryable(err) {
				// Terminal failures spend no fallback budget; bad credentials
				// or a malformed request will not heal on another provider's
				// retry loop either.
				o.logger.Warn("terminal provider error, aborting chain",
					"provider", provider.Name(), "file", file.Path, "error", err)
				return errorFileResult(file.Path, err.Error(), start)
			}
			lastErr = err
			o.logger.Warn("provider failed, trying next in chain",
				"provider", provider.Name(), "file", file.Path, "error", err)
			continue
		}

		result := llm.Normalize(reply)
		// ERROR results are never cached.
		if o.cache != nil && result.Status != core.StatusError {
			o.cache.Put(key, keyIn, result)
		}
		return core.FileAuditResult{
			FilePath: file.Path,
			Result:   result,
			Duration: time.Since(start),
		}
	}

	msg := "no providers configured"
	if lastErr != nil {
		msg = fmt.Sprintf("all providers failed: %v", lastErr)
	}
	return errorFileResult(file.Path, msg, start)
}

// callWithRetry runs one provider with exponential backoff. Only the fixed
// retryable class (rate limits, 5xx, connection failures, timeouts) consumes
// further attempts; a terminal error returns immediately and the caller
// aborts the whole chain.
func (o *Orchestrator) callWithRetry(ctx context.Context, provider llm.Provider, systemPrompt, userPrompt, path string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		reply, err := o.callOnce(ctx, provider, systemPrompt, userPrompt)

		if err == nil {
			return reply, nil
		}
		if !llm.IsRetryable(err) {
			return "", err
		}

		lastErr = err
		if attempt == o.opts.MaxAttempts {
			break
		}

		delay := o.retryDelay(attempt)
		o.logger.Warn("retryable provider error, backing off",
			"provider", provider.Name(), "file", path,
			"attempt", attempt, "delay", delay, "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("%s: retries exhausted after %d attempts: %w", provider.Name(), o.opts.MaxAttempts, lastErr)
}

func (o *Orchestrator) callOnce(ctx context.Context, provider llm.Provider, systemPrompt, userPrompt string) (string, error) {
	if o.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.CallTimeout)
		defer cancel()
	}
	return provider.Generate(ctx, systemPrompt, userPrompt)
}

// retryDelay doubles per attempt, capped, with jitter in the upper half so
// concurrent workers hitting the same rate limit don't retry in lockstep.
// Doubling stops at the cap, so large attempt counts cannot overflow.
func (o *Orchestrator) retryDelay(attempt int) time.Duration {
	delay := o.opts.RetryBaseDelay
	for i := 1; i < attempt && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	half := delay / 2
	return half + rand.N(half+1)
}

func errorFileResult(path, message string, start time.Time) core.FileAuditResult {
	return core.FileAuditResult{
		FilePath: path,
		Result: core.AuditResult{
			Status:  core.StatusError,
			Issues:  []core.AuditIssue{},
			Message: message,
		},
		Duration: time.Since(start),
	}
}
