// Package collector turns accepted paths into per-file unified diffs while
// enforcing the run guardrails: file count, cumulative changed lines, and
// per-file character budget.
package collector

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/sevigo/reviewgate/internal/config"
	"github.com/sevigo/reviewgate/internal/core"
)

// Skip reasons recorded in the report.
const (
	ReasonMaxFiles     = "maxFiles guardrail"
	ReasonMaxDiffLines = "maxDiffLines guardrail"
	ReasonNoContent    = "no diff content"
	ReasonBinary       = "binary diff"
	ReasonNoChanges    = "no changed lines"
)

// TruncationMarker is appended to a patch cut at the per-file character limit.
const TruncationMarker = "\n... [diff truncated at maxCharsPerFile]"

// Differ is the slice of the git client the collector needs.
type Differ interface {
	FileDiff(ctx context.Context, target core.ReviewTarget, path string, contextLines int) string
}

// Collector gathers diffs under guardrails.
type Collector struct {
	git    Differ
	logger *slog.Logger
}

// New creates a Collector.
func New(git Differ, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{git: git, logger: logger}
}

// Result is the collector's complete output for a run.
type Result struct {
	Files             []core.ReviewInputFile
	Skipped           []core.SkippedFile
	TotalChangedLines int
}

// Collect walks the accepted paths in sorted order and applies the guardrail
// policy: files beyond MaxFiles are skipped outright, empty/binary/no-change
// diffs are skipped with distinct reasons, files that would blow the
// cumulative changed-line budget are skipped, and oversized patches are
// truncated rather than dropped. Evaluation order is stable, so the same
// input set always keeps and drops the same files.
func (c *Collector) Collect(ctx context.Context, target core.ReviewTarget, accepted []string, guard config.Guardrails, contextLines int) Result {
	paths := append([]string(nil), accepted...)
	sort.Strings(paths)

	var res Result
	for i, path := range paths {
		if i >= guard.MaxFiles {
			res.Skipped = append(res.Skipped, core.SkippedFile{Path: path, Reason: ReasonMaxFiles})
			continue
		}

		patch := c.git.FileDiff(ctx, target, path, contextLines)
		if strings.TrimSpace(patch) == "" {
			res.Skipped = append(res.Skipped, core.SkippedFile{Path: path, Reason: ReasonNoContent})
			continue
		}
		if isBinaryPatch(patch) {
			res.Skipped = append(res.Skipped, core.SkippedFile{Path: path, Reason: ReasonBinary})
			continue
		}

		additions, deletions := countChanges(patch)
		changed := additions + deletions
		if changed == 0 {
			res.Skipped = append(res.Skipped, core.SkippedFile{Path: path, Reason: ReasonNoChanges})
			continue
		}

		if res.TotalChangedLines+changed > guard.MaxDiffLines {
			res.Skipped = append(res.Skipped, core.SkippedFile{Path: path, Reason: ReasonMaxDiffLines})
			continue
		}

		truncated := false
		if len(patch) > guard.MaxCharsPerFile {
			patch = patch[:guard.MaxCharsPerFile] + TruncationMarker
			truncated = true
			c.logger.Debug("patch truncated", "path", path, "limit", guard.MaxCharsPerFile)
		}

		res.Files = append(res.Files, core.ReviewInputFile{
			Path:         path,
			Patch:        patch,
			Additions:    additions,
			Deletions:    deletions,
			ChangedLines: changed,
			Truncated:    truncated,
		})
		res.TotalChangedLines += changed
	}

	return res
}

// countChanges tallies added and removed lines in a unified diff, excluding
// the +++/--- file headers.
func countChanges(patch string) (additions, deletions int) {
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return additions, deletions
}

func isBinaryPatch(patch string) bool {
	return strings.Contains(patch, "Binary files ") || strings.Contains(patch, "GIT binary patch")
}
