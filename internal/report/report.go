// Package report turns the accumulated pipeline outputs into the canonical
// review report and renders it for terminals, JSON consumers, and markdown.
package report

import (
	"time"

	"github.com/sevigo/reviewgate/internal/core"
)

// Input is everything the stages produced during one run.
type Input struct {
	Target            core.ReviewTarget
	AIEnabled         bool
	Results           []core.FileAuditResult
	Skipped           []core.SkippedFile
	Redactions        []core.RedactionReport
	Errors            []string
	TotalChangedLines int
	StartedAt         time.Time
}

// Aggregate computes the summary counters and the overall verdict. Overall
// status follows strict precedence: any file ERROR (or run-level error) makes
// the run ERROR, otherwise any FAIL or any reported issue makes it FAIL,
// otherwise PASS. A run with no audited files passes vacuously.
func Aggregate(in Input) core.ReviewReport {
	summary := core.Summary{
		TotalFiles:        len(in.Results) + len(in.Skipped),
		AuditedFiles:      len(in.Results),
		TotalChangedLines: in.TotalChangedLines,
		TotalDuration:     time.Since(in.StartedAt),
	}

	status := core.StatusPass
	for _, r := range in.Results {
		switch r.Result.Status {
		case core.StatusPass:
			summary.PassedFiles++
		case core.StatusFail:
			summary.FailedFiles++
		case core.StatusError:
			summary.ErrorFiles++
		}
		for _, issue := range r.Result.Issues {
			switch issue.Severity {
			case core.SeverityCritical:
				summary.CriticalIssues++
			case core.SeverityWarning:
				summary.WarningIssues++
			case core.SeverityInfo:
				summary.InfoIssues++
			}
		}
	}

	switch {
	case summary.ErrorFiles > 0 || len(in.Errors) > 0:
		status = core.StatusError
	case summary.FailedFiles > 0 || summary.CriticalIssues+summary.WarningIssues+summary.InfoIssues > 0:
		status = core.StatusFail
	}

	errs := in.Errors
	if errs == nil {
		errs = []string{}
	}
	results := in.Results
	if results == nil {
		results = []core.FileAuditResult{}
	}
	skipped := in.Skipped
	if skipped == nil {
		skipped = []core.SkippedFile{}
	}

	return core.ReviewReport{
		SchemaVersion: core.ReportSchemaVersion,
		Status:        status,
		Target:        in.Target.String(),
		AIEnabled:     in.AIEnabled,
		Summary:       summary,
		Results:       results,
		Skipped:       skipped,
		Redactions:    in.Redactions,
		Errors:        errs,
		GeneratedAt:   time.Now().UTC(),
	}
}

// ExitCode maps the overall verdict to the process exit code.
func ExitCode(r core.ReviewReport) int {
	switch r.Status {
	case core.StatusPass:
		return 0
	case core.StatusFail:
		return 1
	default:
		return 2
	}
}
