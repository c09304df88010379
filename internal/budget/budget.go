// Package budget estimates the token cost of a review payload against the
// provider's context window before any network call is made.
package budget

import (
	"errors"
	"fmt"

	"github.com/sevigo/reviewgate/internal/core"
)

// ErrBudgetExceeded aborts the run before any provider call; a call that
// would be silently truncated is worse than no call.
var ErrBudgetExceeded = errors.New("estimated tokens exceed the provider context window")

// charsPerToken is the character heuristic used for estimation. Exact
// tokenizer counts vary per model; a fast estimate is enough to decide
// whether a call is even worth attempting.
const charsPerToken = 4

// warnThreshold is the fraction of the limit above which the run proceeds
// with a warning.
const warnThreshold = 0.8

// Outcome of a budget check.
type Outcome int

const (
	Proceed Outcome = iota
	ProceedWithWarning
	Exceeded
)

// Estimate is the result of budgeting one payload.
type Estimate struct {
	Tokens  int
	Limit   int
	Outcome Outcome
}

// EstimateTokens approximates the token count of a text.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// Check estimates the cost of the system prompt plus every sanitized payload
// against the context limit. Below 80% of the limit the run proceeds
// silently; between 80% and 100% it proceeds with a warning; at or above the
// limit the orchestrator must not call the provider at all.
func Check(systemPrompt string, files []core.SanitizedFile, limit int) (Estimate, error) {
	if limit <= 0 {
		return Estimate{}, fmt.Errorf("context limit must be positive, got %d", limit)
	}

	tokens := EstimateTokens(systemPrompt)
	for _, f := range files {
		tokens += EstimateTokens(f.Content)
	}

	est := Estimate{Tokens: tokens, Limit: limit}
	switch {
	case tokens >= limit:
		est.Outcome = Exceeded
		return est, fmt.Errorf("%w: estimated %d tokens, limit %d", ErrBudgetExceeded, tokens, limit)
	case float64(tokens) >= warnThreshold*float64(limit):
		est.Outcome = ProceedWithWarning
	default:
		est.Outcome = Proceed
	}
	return est, nil
}
