// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the review pipeline.
package core

import (
	"fmt"
	"time"
)

// TargetMode identifies which kind of change-set a review run operates on.
type TargetMode string

const (
	TargetStaged TargetMode = "staged"
	TargetCommit TargetMode = "commit"
	TargetRange  TargetMode = "range"
	TargetFiles  TargetMode = "files"
)

// ReviewTarget describes the concrete change-set a run reviews. Exactly one
// mode is active; the struct is built once by the target resolver and never
// mutated afterwards.
type ReviewTarget struct {
	Mode   TargetMode
	Commit string   // set when Mode == TargetCommit
	Range  string   // "base..head", set when Mode == TargetRange
	Files  []string // set when Mode == TargetFiles
}

// String renders the target in the form used for reports and history lookups.
func (t ReviewTarget) String() string {
	switch t.Mode {
	case TargetStaged:
		return "staged"
	case TargetCommit:
		return fmt.Sprintf("commit:%s", t.Commit)
	case TargetRange:
		return fmt.Sprintf("range:%s", t.Range)
	case TargetFiles:
		return fmt.Sprintf("files:%d", len(t.Files))
	default:
		return string(t.Mode)
	}
}

// CandidatePath records the filter decision for a single path.
type CandidatePath struct {
	Path     string
	Accepted bool
	Reason   string // empty when accepted
}

// ReviewInputFile is one file's diff after collection, with its change stats.
// Truncated is set when the patch was cut at the per-file character guardrail.
type ReviewInputFile struct {
	Path         string
	Patch        string
	Additions    int
	Deletions    int
	ChangedLines int
	Truncated    bool
}

// SanitizedFile is the redacted form of a ReviewInputFile patch. This is the
// only shape of diff content allowed past the redaction stage.
type SanitizedFile struct {
	Path    string
	Content string
}

// RedactionReport summarizes what the redactor found in one file.
type RedactionReport struct {
	Path          string   `json:"path"`
	RedactedCount int      `json:"redactedCount"`
	Patterns      []string `json:"patterns"`
}

// Severity of a single audit issue.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// AuditStatus is the per-file (and overall) review verdict.
type AuditStatus string

const (
	StatusPass  AuditStatus = "PASS"
	StatusFail  AuditStatus = "FAIL"
	StatusError AuditStatus = "ERROR"
)

// AuditIssue is a single finding reported by the model for one file.
type AuditIssue struct {
	Line       int      `json:"line"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// AuditResult is the normalized outcome of auditing one file. StatusError is
// reserved for pipeline and provider failures; a well-formed model reply never
// carries it. Issues is non-nil after normalization.
type AuditResult struct {
	Status     AuditStatus  `json:"status"`
	Issues     []AuditIssue `json:"issues"`
	Message    string       `json:"message,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`
}

// FileAuditResult pairs an AuditResult with the file it belongs to and how it
// was obtained.
type FileAuditResult struct {
	FilePath string        `json:"filePath"`
	Result   AuditResult   `json:"result"`
	Duration time.Duration `json:"duration"`
	Cached   bool          `json:"cached"`
}

// SkippedFile records a path dropped before auditing and why.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Summary holds the counters the aggregator computes over a whole run.
type Summary struct {
	TotalFiles        int           `json:"totalFiles"`
	AuditedFiles      int           `json:"auditedFiles"`
	PassedFiles       int           `json:"passedFiles"`
	FailedFiles       int           `json:"failedFiles"`
	ErrorFiles        int           `json:"errorFiles"`
	CriticalIssues    int           `json:"criticalIssues"`
	WarningIssues     int           `json:"warningIssues"`
	InfoIssues        int           `json:"infoIssues"`
	TotalChangedLines int           `json:"totalChangedLines"`
	TotalDuration     time.Duration `json:"totalDuration"`
}

// ReviewReport is the canonical output of a run: built once at the end, from
// the accumulated results of all stages, and never mutated afterwards.
type ReviewReport struct {
	SchemaVersion string            `json:"schemaVersion"`
	Status        AuditStatus       `json:"status"`
	Target        string            `json:"target"`
	AIEnabled     bool              `json:"aiEnabled"`
	Summary       Summary           `json:"summary"`
	Results       []FileAuditResult `json:"results"`
	Skipped       []SkippedFile     `json:"skipped"`
	Redactions    []RedactionReport `json:"redactions,omitempty"`
	Errors        []string          `json:"errors"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}

// ReportSchemaVersion is bumped whenever the serialized report shape changes.
const ReportSchemaVersion = "1"

// Version is the tool version. It participates in cache keys so results from
// older releases are never replayed.
const Version = "0.1.0"
