// Package gitutil provides a client for working with the local Git repository.
package gitutil

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/sevigo/reviewgate/internal/core"
)

// Client handles interacting with the repository the tool runs inside.
// Listing and diffing degrade to "no files" on failure instead of
// propagating errors; the pipeline treats an unreadable change-set as empty.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// RepoMeta describes the repository a run operates on.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// Meta collects repository metadata via go-git. The repository is discovered
// from the working directory upward.
func (c *Client) Meta() (RepoMeta, error) {
	repo, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}

	meta := RepoMeta{}
	if wt, err := repo.Worktree(); err == nil {
		meta.Root = wt.Filesystem.Root()
	}
	head, err := repo.Head()
	if err != nil {
		// Fresh repository with no commits; metadata stays empty.
		return meta, nil
	}
	meta.Head = head.Hash().String()
	if head.Name().IsBranch() {
		meta.Branch = head.Name().Short()
	}
	return meta, nil
}

// ChangedPaths lists the paths touched by the given target, sorted. A git
// failure is logged and yields an empty list.
func (c *Client) ChangedPaths(ctx context.Context, target core.ReviewTarget) []string {
	var (
		out string
		err error
	)

	switch target.Mode {
	case core.TargetStaged:
		out, err = c.gitOutput(ctx, "diff", "--cached", "--name-only")
	case core.TargetCommit:
		return c.commitPaths(ctx, target.Commit)
	case core.TargetRange:
		out, err = c.gitOutput(ctx, "diff", "--name-only", target.Range)
	case core.TargetFiles:
		paths := append([]string(nil), target.Files...)
		sort.Strings(paths)
		return paths
	default:
		return nil
	}

	if err != nil {
		c.Logger.Warn("listing changed paths failed, treating change-set as empty",
			"target", target.String(), "error", err)
		return nil
	}

	var paths []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	sort.Strings(paths)
	return paths
}

// commitPaths resolves a single commit's changed files through go-git by
// diffing the commit tree against its first parent.
func (c *Client) commitPaths(ctx context.Context, sha string) []string {
	repo, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		c.Logger.Warn("opening repository failed", "error", err)
		return nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(sha))
	if err != nil {
		c.Logger.Warn("resolving commit failed", "sha", sha, "error", err)
		return nil
	}
	commit, err := object.GetCommit(repo.Storer, *hash)
	if err != nil {
		c.Logger.Warn("reading commit failed", "sha", sha, "error", err)
		return nil
	}

	commitTree, err := commit.Tree()
	if err != nil {
		c.Logger.Warn("reading commit tree failed", "sha", sha, "error", err)
		return nil
	}

	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err == nil {
			parentTree, _ = parent.Tree()
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, commitTree, object.DefaultDiffTreeOptions)
	if err != nil {
		c.Logger.Warn("diffing commit trees failed", "sha", sha, "error", err)
		return nil
	}

	seen := map[string]struct{}{}
	var paths []string
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		if _, ok := seen[name]; !ok && name != "" {
			seen[name] = struct{}{}
			paths = append(paths, name)
		}
	}
	sort.Strings(paths)
	return paths
}

// FileDiff produces a unified diff for one path under the target, with the
// requested number of context lines. Failures degrade to an empty diff.
func (c *Client) FileDiff(ctx context.Context, target core.ReviewTarget, path string, contextLines int) string {
	ctxArg := fmt.Sprintf("-U%d", contextLines)

	var args []string
	switch target.Mode {
	case core.TargetStaged:
		args = []string{"diff", "--cached", ctxArg, "--", path}
	case core.TargetCommit:
		args = []string{"diff", ctxArg, target.Commit + "~1", target.Commit, "--", path}
	case core.TargetRange:
		args = []string{"diff", ctxArg, target.Range, "--", path}
	case core.TargetFiles:
		// Explicit file lists review the working tree against HEAD.
		args = []string{"diff", ctxArg, "HEAD", "--", path}
	default:
		return ""
	}

	out, err := c.gitOutput(ctx, args...)
	if err != nil {
		if target.Mode == core.TargetCommit {
			// Initial commits have no parent; fall back to git show.
			if shown, showErr := c.gitOutput(ctx, "show", "--format=", ctxArg, target.Commit, "--", path); showErr == nil {
				return shown
			}
		}
		c.Logger.Warn("diffing file failed, skipping", "path", path, "error", err)
		return ""
	}
	return out
}

func (c *Client) gitOutput(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
