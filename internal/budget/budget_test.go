package budget

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/reviewgate/internal/core"
)

func payload(chars int) []core.SanitizedFile {
	return []core.SanitizedFile{{Path: "a.go", Content: strings.Repeat("x", chars)}}
}

func TestCheck_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		promptChars int
		fileChars   int
		limit       int
		want        Outcome
		wantErr     bool
	}{
		{
			name:      "well below limit proceeds silently",
			fileChars: 400, // 100 tokens
			limit:     1000,
			want:      Proceed,
		},
		{
			name:      "at 80 percent warns",
			fileChars: 3200, // 800 tokens
			limit:     1000,
			want:      ProceedWithWarning,
		},
		{
			name:      "just under limit warns",
			fileChars: 3996, // 999 tokens
			limit:     1000,
			want:      ProceedWithWarning,
		},
		{
			name:      "at limit aborts",
			fileChars: 4000, // 1000 tokens
			limit:     1000,
			want:      Exceeded,
			wantErr:   true,
		},
		{
			name:        "system prompt counts toward the budget",
			promptChars: 2000, // 500 tokens
			fileChars:   2000, // 500 tokens
			limit:       1000,
			want:        Exceeded,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := Check(strings.Repeat("p", tt.promptChars), payload(tt.fileChars), tt.limit)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrBudgetExceeded))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, est.Outcome)
		})
	}
}

func TestCheck_InvalidLimit(t *testing.T) {
	_, err := Check("prompt", nil, 0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBudgetExceeded), "invalid limit is a configuration error, not a budget error")
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("a", 100)))
}
