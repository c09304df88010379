package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/sevigo/reviewgate/internal/core"
)

// RenderMarkdown produces the markdown form of a report, suitable for PR
// comments and the pretty terminal renderer.
func RenderMarkdown(r core.ReviewReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Review Report: %s\n\n", statusEmoji(r.Status))
	fmt.Fprintf(&b, "**Target:** `%s`  \n", r.Target)
	fmt.Fprintf(&b, "**Files:** %d audited, %d skipped  \n", r.Summary.AuditedFiles, len(r.Skipped))
	fmt.Fprintf(&b, "**Issues:** %d critical, %d warning, %d info\n\n",
		r.Summary.CriticalIssues, r.Summary.WarningIssues, r.Summary.InfoIssues)

	if !r.AIEnabled {
		b.WriteString("> AI audit disabled, guardrail checks only.\n\n")
	}

	for _, fr := range r.Results {
		fmt.Fprintf(&b, "## %s `%s`\n\n", statusEmoji(fr.Result.Status), fr.FilePath)
		if fr.Result.Message != "" {
			fmt.Fprintf(&b, "%s\n\n", fr.Result.Message)
		}
		for _, issue := range fr.Result.Issues {
			fmt.Fprintf(&b, "- **%s** (line %d): %s\n", issue.Severity, issue.Line, issue.Message)
			if issue.Suggestion != "" {
				fmt.Fprintf(&b, "  - Suggestion: %s\n", issue.Suggestion)
			}
		}
		if len(fr.Result.Issues) > 0 {
			b.WriteString("\n")
		}
	}

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped Files\n\n")
		b.WriteString("| Path | Reason |\n|------|--------|\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "| `%s` | %s |\n", s.Path, s.Reason)
		}
		b.WriteString("\n")
	}

	if len(r.Redactions) > 0 {
		b.WriteString("## Redactions\n\n")
		for _, red := range r.Redactions {
			fmt.Fprintf(&b, "- `%s`: %d occurrence(s) of %s\n",
				red.Path, red.RedactedCount, strings.Join(red.Patterns, ", "))
		}
		b.WriteString("\n")
	}

	for _, e := range r.Errors {
		fmt.Fprintf(&b, "> ⚠️ %s\n", e)
	}

	return b.String()
}

// RenderPretty renders the markdown report through a terminal styler.
func RenderPretty(r core.ReviewReport, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(RenderMarkdown(r))
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out, nil
}

func statusEmoji(s core.AuditStatus) string {
	switch s {
	case core.StatusPass:
		return "✅ PASS"
	case core.StatusFail:
		return "❌ FAIL"
	default:
		return "⚠️ ERROR"
	}
}
