package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/reviewgate/internal/core"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantStatus core.AuditStatus
		wantIssues int
	}{
		{
			name:       "clean JSON pass",
			input:      `{"status": "PASS", "issues": []}`,
			wantStatus: core.StatusPass,
		},
		{
			name:       "fail with issues",
			input:      `{"status": "FAIL", "issues": [{"line": 10, "severity": "CRITICAL", "message": "SQL injection"}]}`,
			wantStatus: core.StatusFail,
			wantIssues: 1,
		},
		{
			name:       "fenced JSON",
			input:      "```json\n{\"status\": \"PASS\", \"issues\": []}\n```",
			wantStatus: core.StatusPass,
		},
		{
			name:       "fence without language tag",
			input:      "```\n{\"status\": \"FAIL\", \"issues\": [{\"line\": 1, \"severity\": \"INFO\", \"message\": \"nit\"}]}\n```",
			wantStatus: core.StatusFail,
			wantIssues: 1,
		},
		{
			name:       "JSON embedded in prose",
			input:      `Here is my review: {"status": "PASS", "issues": []} Hope that helps!`,
			wantStatus: core.StatusPass,
		},
		{
			name:       "plain refusal text",
			input:      "I cannot review this.",
			wantStatus: core.StatusError,
		},
		{
			name:       "empty input",
			input:      "",
			wantStatus: core.StatusError,
		},
		{
			name:       "truncated JSON",
			input:      `{"status": "PASS", "issues": [{"line": 3,`,
			wantStatus: core.StatusError,
		},
		{
			name:       "unknown status coerced to ERROR",
			input:      `{"status": "MAYBE", "issues": []}`,
			wantStatus: core.StatusError,
		},
		{
			name:       "lowercase status accepted",
			input:      `{"status": "pass", "issues": []}`,
			wantStatus: core.StatusPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.wantStatus, got.Status)
			require.NotNil(t, got.Issues, "issues must always be present after normalization")
			assert.Len(t, got.Issues, tt.wantIssues)
		})
	}
}

func TestNormalize_IssueCoercions(t *testing.T) {
	got := Normalize(`{
		"status": "FAIL",
		"issues": [
			{"line": 0, "severity": "CRITICAL", "message": "zero line"},
			{"line": -4, "severity": "blocker", "message": "weird severity"},
			{"line": "17", "severity": "INFO", "message": "string line"},
			{"line": 5, "severity": "WARNING"},
			{"line": 9, "severity": "WARNING", "message": "  "}
		]
	}`)

	require.Len(t, got.Issues, 3, "message-less issues are dropped, not coerced")

	assert.Equal(t, 1, got.Issues[0].Line)
	assert.Equal(t, core.SeverityCritical, got.Issues[0].Severity)

	assert.Equal(t, 1, got.Issues[1].Line)
	assert.Equal(t, core.SeverityWarning, got.Issues[1].Severity, "unknown severity becomes WARNING")

	assert.Equal(t, 17, got.Issues[2].Line)
	assert.Equal(t, core.SeverityInfo, got.Issues[2].Severity)
}

func TestNormalize_RefusalScenario(t *testing.T) {
	got := Normalize("I cannot review this.")
	assert.Equal(t, core.StatusError, got.Status)
	assert.Empty(t, got.Issues)
	assert.Equal(t, parseFailureMessage, got.Message)
}

func TestCoerceCached(t *testing.T) {
	t.Run("out-of-domain status is rejected", func(t *testing.T) {
		for _, status := range []core.AuditStatus{"BANANA", "", core.StatusError, "pass"} {
			_, ok := CoerceCached(core.AuditResult{Status: status})
			assert.Falsef(t, ok, "status %q must be rejected", status)
		}
	})

	t.Run("valid statuses pass through", func(t *testing.T) {
		for _, status := range []core.AuditStatus{core.StatusPass, core.StatusFail} {
			got, ok := CoerceCached(core.AuditResult{Status: status})
			require.True(t, ok)
			assert.Equal(t, status, got.Status)
			assert.NotNil(t, got.Issues)
		}
	})

	t.Run("issue fields get the live-reply coercions", func(t *testing.T) {
		got, ok := CoerceCached(core.AuditResult{
			Status: core.StatusFail,
			Issues: []core.AuditIssue{
				{Line: -7, Severity: core.Severity("HUGE"), Message: "weird fields"},
				{Line: 12, Severity: core.SeverityCritical, Message: "kept as is", Suggestion: "fix"},
				{Line: 4, Severity: core.SeverityInfo, Message: ""},
			},
		})
		require.True(t, ok)
		require.Len(t, got.Issues, 2)
		assert.Equal(t, 1, got.Issues[0].Line)
		assert.Equal(t, core.SeverityWarning, got.Issues[0].Severity)
		assert.Equal(t, 12, got.Issues[1].Line)
		assert.Equal(t, core.SeverityCritical, got.Issues[1].Severity)
	})
}

// Normalize must return a well-formed result for any input whatsoever.
func TestNormalize_NeverPanics(t *testing.T) {
	inputs := []string{
		"{", "}", "{}", "```", "```json", "```json\n```",
		`{"issues": "not an array"}`,
		`{"status": 42}`,
		strings.Repeat("{", 10000),
		"{\"a\": \"\\\"}\"}",
		"\x00\xff binary garbage {\"status\": \"PASS\", \"issues\": []}",
	}
	for _, input := range inputs {
		got := Normalize(input)
		assert.NotNil(t, got.Issues, "input: %q", input)
	}
}
