package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sevigo/reviewgate/internal/core"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

// RenderConsole prints a human-readable report.
func RenderConsole(w io.Writer, r core.ReviewReport) {
	separator := strings.Repeat("═", 60)
	thinSeparator := strings.Repeat("─", 60)

	fmt.Fprintln(w)
	titleColor.Fprintln(w, separator)
	titleColor.Fprintln(w, "📋 REVIEW REPORT")
	titleColor.Fprintln(w, separator)

	dimColor.Fprintf(w, "Target: %s\n", r.Target)
	if !r.AIEnabled {
		warnColor.Fprintln(w, "AI audit disabled, guardrail checks only")
	}

	fmt.Fprintln(w)
	boldColor.Fprintf(w, "Files: %d audited", r.Summary.AuditedFiles)
	if len(r.Skipped) > 0 {
		dimColor.Fprintf(w, ", %d skipped", len(r.Skipped))
	}
	fmt.Fprintln(w)
	dimColor.Fprintf(w, "Changed lines: %d, duration: %s\n",
		r.Summary.TotalChangedLines, r.Summary.TotalDuration.Round(10*time.Millisecond))

	for _, fr := range r.Results {
		fmt.Fprintln(w)
		printStatusBadge(w, fr.Result.Status)
		boldColor.Fprintf(w, " %s", fr.FilePath)
		if fr.Cached {
			dimColor.Fprint(w, " (cached)")
		}
		fmt.Fprintln(w)

		if fr.Result.Message != "" {
			infoColor.Fprintf(w, "   %s\n", fr.Result.Message)
		}
		for _, issue := range fr.Result.Issues {
			fmt.Fprint(w, "   ")
			printSeverityBadge(w, issue.Severity)
			dimColor.Fprintf(w, " line %d: ", issue.Line)
			infoColor.Fprintln(w, issue.Message)
			if issue.Suggestion != "" {
				dimColor.Fprintf(w, "      └── %s\n", issue.Suggestion)
			}
		}
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintln(w)
		dimColor.Fprintln(w, thinSeparator)
		dimColor.Fprintf(w, "Skipped (%d):\n", len(r.Skipped))
		for _, s := range r.Skipped {
			dimColor.Fprintf(w, "   %s: %s\n", s.Path, s.Reason)
		}
	}

	if len(r.Redactions) > 0 {
		fmt.Fprintln(w)
		warnColor.Fprintf(w, "Redacted secrets in %d file(s):\n", len(r.Redactions))
		for _, red := range r.Redactions {
			warnColor.Fprintf(w, "   %s: %d occurrence(s) [%s]\n",
				red.Path, red.RedactedCount, strings.Join(red.Patterns, ", "))
		}
	}

	for _, e := range r.Errors {
		fmt.Fprintln(w)
		errorColor.Fprintf(w, "Error: %s\n", e)
	}

	fmt.Fprintln(w)
	titleColor.Fprintln(w, separator)
	switch r.Status {
	case core.StatusPass:
		successColor.Fprintln(w, "✅ PASS")
	case core.StatusFail:
		errorColor.Fprintf(w, "❌ FAIL (%d critical, %d warning, %d info)\n",
			r.Summary.CriticalIssues, r.Summary.WarningIssues, r.Summary.InfoIssues)
	default:
		errorColor.Fprintln(w, "⚠️  ERROR, review did not complete")
	}
	titleColor.Fprintln(w, separator)
}

func printStatusBadge(w io.Writer, status core.AuditStatus) {
	switch status {
	case core.StatusPass:
		color.New(color.BgGreen, color.FgWhite).Fprintf(w, " %s ", status)
	case core.StatusFail:
		color.New(color.BgRed, color.FgWhite, color.Bold).Fprintf(w, " %s ", status)
	default:
		color.New(color.BgWhite, color.FgBlack).Fprintf(w, " %s ", status)
	}
}

func printSeverityBadge(w io.Writer, severity core.Severity) {
	switch severity {
	case core.SeverityCritical:
		color.New(color.BgRed, color.FgWhite, color.Bold).Fprintf(w, " %s ", severity)
	case core.SeverityWarning:
		color.New(color.BgYellow, color.FgBlack).Fprintf(w, " %s ", severity)
	case core.SeverityInfo:
		color.New(color.BgGreen, color.FgWhite).Fprintf(w, " %s ", severity)
	default:
		color.New(color.BgWhite, color.FgBlack).Fprintf(w, " %s ", severity)
	}
}
