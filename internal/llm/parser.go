package llm

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sevigo/reviewgate/internal/core"
)

// parseFailureMessage is the fixed message carried by the typed ERROR result
// when a reply cannot be parsed at all.
const parseFailureMessage = "failed to parse model response"

// rawResult mirrors the JSON shape the model is prompted to produce, with
// loose field types so a sloppy reply still unmarshals.
type rawResult struct {
	Status     string     `json:"status"`
	Issues     []rawIssue `json:"issues"`
	Message    string     `json:"message"`
	Suggestion string     `json:"suggestion"`
}

type rawIssue struct {
	Line       any    `json:"line"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// Normalize turns a raw provider reply into a canonical AuditResult. It
// never fails: markdown fences are stripped, a direct JSON parse is
// attempted, then the first balanced object substring, and if everything
// fails a typed ERROR result is returned. The same coercion rules apply to
// live replies and to values read back from cache, so a corrupted cache
// entry surfaces through the identical path.
//
// Coercions: an unknown status becomes ERROR, an unknown severity becomes
// WARNING, a non-positive line becomes 1, and issues without a message are
// dropped entirely.
func Normalize(reply string) core.AuditResult {
	text := stripCodeFence(reply)

	var raw rawResult
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		candidate, ok := extractBalancedObject(text)
		if !ok {
			return errorResult()
		}
		if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
			return errorResult()
		}
	}

	result := core.AuditResult{
		Status:     coerceStatus(raw.Status),
		Issues:     []core.AuditIssue{},
		Message:    raw.Message,
		Suggestion: raw.Suggestion,
	}
	for _, ri := range raw.Issues {
		if strings.TrimSpace(ri.Message) == "" {
			// A message-less issue carries no information.
			continue
		}
		result.Issues = append(result.Issues, core.AuditIssue{
			Line:       coerceLine(ri.Line),
			Severity:   coerceSeverity(ri.Severity),
			Message:    ri.Message,
			Suggestion: ri.Suggestion,
		})
	}
	return result
}

// CoerceCached applies the same coercion rules to a result read back from
// cache. ERROR results are never written, so any status other than PASS or
// FAIL marks the entry as corrupted; the second return is false and callers
// treat the lookup as a miss. Issue fields get the live-reply coercions:
// message-less issues are dropped, unknown severities become WARNING, and
// non-positive lines become 1.
func CoerceCached(r core.AuditResult) (core.AuditResult, bool) {
	if r.Status != core.StatusPass && r.Status != core.StatusFail {
		return core.AuditResult{}, false
	}

	out := core.AuditResult{
		Status:     r.Status,
		Issues:     []core.AuditIssue{},
		Message:    r.Message,
		Suggestion: r.Suggestion,
	}
	for _, issue := range r.Issues {
		if strings.TrimSpace(issue.Message) == "" {
			continue
		}
		if issue.Line < 1 {
			issue.Line = 1
		}
		issue.Severity = coerceSeverity(string(issue.Severity))
		out.Issues = append(out.Issues, issue)
	}
	return out, true
}

func errorResult() core.AuditResult {
	return core.AuditResult{
		Status:  core.StatusError,
		Issues:  []core.AuditIssue{},
		Message: parseFailureMessage,
	}
}

func coerceStatus(s string) core.AuditStatus {
	switch core.AuditStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case core.StatusPass:
		return core.StatusPass
	case core.StatusFail:
		return core.StatusFail
	default:
		return core.StatusError
	}
}

func coerceSeverity(s string) core.Severity {
	switch core.Severity(strings.ToUpper(strings.TrimSpace(s))) {
	case core.SeverityCritical:
		return core.SeverityCritical
	case core.SeverityInfo:
		return core.SeverityInfo
	default:
		return core.SeverityWarning
	}
}

func coerceLine(v any) int {
	switch n := v.(type) {
	case float64:
		if n >= 1 {
			return int(n)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil && parsed >= 1 {
			return parsed
		}
	}
	return 1
}

// stripCodeFence removes a ``` wrapper (with or without a language tag) that
// some models add around their output.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return trimmed
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}

// extractBalancedObject returns the first balanced {...} substring, tracking
// string literals so braces inside JSON strings don't skew the count.
func extractBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
