// Package redact removes secrets from diff content before it is sent to any
// LLM provider. It runs after filtering and before budgeting; no raw diff
// text may bypass it.
//
// Detection uses a fixed, ordered catalogue of regex-shaped secret patterns.
// New secret shapes are added to the catalogue as data, not as new code paths.
package redact

import (
	"regexp"

	"github.com/sevigo/reviewgate/internal/core"
)

// Marker replaces every detected secret. Redaction is irreversible.
const Marker = "[REDACTED]"

// pattern pairs a stable name with its matcher. Names show up in redaction
// reports, so they are part of the tool's output contract.
type pattern struct {
	name string
	re   *regexp.Regexp
}

// catalogue is ordered: specific vendor shapes run before the generic
// assignment catch-all so reports name the most precise category. Every
// pattern must match the complete secret token; partial matches would leave
// secret fragments behind.
var catalogue = []pattern{
	{"private-key-block", regexp.MustCompile(`(?s)-----BEGIN [A-Z ]*PRIVATE KEY-----.*?-----END [A-Z ]*PRIVATE KEY-----`)},
	{"private-key-header", regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`)},
	{"aws-access-key-id", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret-access-key", regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key\s*[:=]\s*["']?[A-Za-z0-9/+=]{40}["']?`)},
	{"database-url", regexp.MustCompile(`(?i)\b(postgres|postgresql|mysql|mariadb|mongodb(\+srv)?|redis|amqps?)://[^\s"']+`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"bearer-token", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._~+/-]{20,}=*`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"anthropic-api-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"stripe-style-secret-key", regexp.MustCompile(`[sr]k_(live|test)_[A-Za-z0-9]{16,}`)},
	{"openai-api-key", regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{"gcp-service-account", regexp.MustCompile(`"private_key_id"\s*:\s*"[a-f0-9]{40}"`)},
	{"generic-assignment", regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret|token|password|passwd|credential)s?\s*[:=]\s*["']?[A-Za-z0-9/+=_.-]{12,}["']?`)},
}

// Result is the outcome of sanitizing one blob of content.
type Result struct {
	Content       string
	RedactedCount int
	Patterns      []string
}

// Sanitize replaces every secret match with the redaction marker. It is
// idempotent: no catalogue pattern can match the marker itself, so running it
// over already-redacted content is a no-op.
func Sanitize(content string) Result {
	res := Result{Content: content}
	for _, p := range catalogue {
		matches := p.re.FindAllStringIndex(res.Content, -1)
		if len(matches) == 0 {
			continue
		}
		res.Content = p.re.ReplaceAllString(res.Content, Marker)
		res.RedactedCount += len(matches)
		res.Patterns = append(res.Patterns, p.name)
	}
	return res
}

// File sanitizes one collected diff and pairs the sanitized content with a
// redaction report when anything was found.
func File(in core.ReviewInputFile) (core.SanitizedFile, *core.RedactionReport) {
	res := Sanitize(in.Patch)
	sanitized := core.SanitizedFile{Path: in.Path, Content: res.Content}
	if res.RedactedCount == 0 {
		return sanitized, nil
	}
	return sanitized, &core.RedactionReport{
		Path:          in.Path,
		RedactedCount: res.RedactedCount,
		Patterns:      res.Patterns,
	}
}
