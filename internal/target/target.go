// Package target maps a user review request to a concrete diff target. The
// resolver runs before any other pipeline stage and rejects conflicting
// selectors as configuration errors.
package target

import (
	"errors"
	"fmt"

	"github.com/sevigo/reviewgate/internal/core"
)

// ErrConflictingSelectors is returned when more than one target selector is
// supplied on the same run.
var ErrConflictingSelectors = errors.New("conflicting target selectors: use only one of --staged, --commit, --range, --files")

// Request carries the raw user selectors, usually straight from CLI flags.
type Request struct {
	Staged bool
	Commit string
	Range  string
	Files  []string

	// CompareBranch is used for the default target when no selector is given.
	CompareBranch string
}

// Resolve validates the request and produces the immutable ReviewTarget for
// the run. With no selector present it falls back to comparing the configured
// branch against the current head.
func Resolve(req Request) (core.ReviewTarget, error) {
	active := 0
	if req.Staged {
		active++
	}
	if req.Commit != "" {
		active++
	}
	if req.Range != "" {
		active++
	}
	if len(req.Files) > 0 {
		active++
	}
	if active > 1 {
		return core.ReviewTarget{}, ErrConflictingSelectors
	}

	switch {
	case req.Staged:
		return core.ReviewTarget{Mode: core.TargetStaged}, nil
	case req.Commit != "":
		return core.ReviewTarget{Mode: core.TargetCommit, Commit: req.Commit}, nil
	case req.Range != "":
		return core.ReviewTarget{Mode: core.TargetRange, Range: req.Range}, nil
	case len(req.Files) > 0:
		return core.ReviewTarget{Mode: core.TargetFiles, Files: append([]string(nil), req.Files...)}, nil
	default:
		branch := req.CompareBranch
		if branch == "" {
			branch = "main"
		}
		return core.ReviewTarget{
			Mode:  core.TargetRange,
			Range: fmt.Sprintf("%s..HEAD", branch),
		}, nil
	}
}
