// Package llm exposes large-language-model providers to the pipeline as an
// opaque generate capability, and normalizes their heterogeneous replies into
// the canonical audit result.
package llm

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Provider is the capability the orchestrator consumes. Concrete transports
// are HTTP calls with JSON bodies; their failures surface as errors
// classified retryable or terminal (see errors.go).
type Provider interface {
	// Name identifies the provider in cache keys, logs, and reports.
	Name() string
	// Model returns the model this provider instance calls.
	Model() string
	// Generate sends the prompts and returns the raw text reply.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Available reports whether the provider is configured well enough to try.
	Available() bool
	// ContextLimit returns the provider's default context window in tokens.
	ContextLimit() int
}

// Default context windows per provider. An explicit configuration override
// takes precedence over these.
const (
	anthropicContextLimit = 200_000
	openAIContextLimit    = 128_000
	geminiContextLimit    = 1_000_000
	ollamaContextLimit    = 8_192
)

// New creates a provider by name. Model may be empty, in which case the
// provider's default model is used.
func New(name, model string, timeout time.Duration) (Provider, error) {
	switch name {
	case "anthropic":
		return newAnthropic(model, timeout), nil
	case "openai":
		return newOpenAI(model, timeout), nil
	case "gemini", "google":
		return newGemini(model, timeout), nil
	case "ollama":
		return newOllama(model, timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}

// newHTTPClient builds the shared transport configuration. Model calls can
// run long, so the overall timeout comes from configuration rather than a
// transport default.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: timeout,
	}
}
