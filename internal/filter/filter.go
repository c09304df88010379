// Package filter classifies candidate paths before any file content is read.
// All checks are purely name based, so the filter is safe to run ahead of I/O.
package filter

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sevigo/reviewgate/internal/core"
)

// Rejection reasons. They appear verbatim in report skip lists.
const (
	ReasonIgnored   = "ignored"
	ReasonExtension = "extension not in allowlist"
	ReasonBlocked   = "blocked (sensitive file)"
)

// allowedExtensions is the set of file types worth sending to a reviewer.
// Dotfile-style config extensions are included so the sensitive blocklist
// gets a chance to name them explicitly instead of them vanishing with a
// generic extension rejection.
var allowedExtensions = map[string]struct{}{
	".go": {}, ".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {},
	".py": {}, ".java": {}, ".c": {}, ".cpp": {}, ".h": {}, ".hpp": {},
	".rs": {}, ".rb": {}, ".php": {}, ".cs": {}, ".swift": {}, ".kt": {},
	".scala": {}, ".sh": {}, ".sql": {}, ".proto": {},
	".md": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".json": {},
	".env": {},
}

// sensitivePatterns match files that must never reach the model, whatever
// their extension says. Matched against the basename.
var sensitivePatterns = []string{
	".env", ".env.*", "*.env",
	"*.pem", "*.key", "*.p12", "*.pfx", "*.crt", "*.keystore",
	"id_rsa", "id_dsa", "id_ecdsa", "id_ed25519",
	"*.min.js", "*.min.css", "*.map",
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock",
	"go.sum", "composer.lock", "Gemfile.lock", "poetry.lock",
	"credentials*.json", "*service-account*.json", "secrets*.json",
	"*.sqlite", "*.sqlite3", "*.db", "*.mdb",
	"*.exe", "*.dll", "*.so", "*.dylib", "*.bin",
	".DS_Store", "Thumbs.db", "*.swp", "*~",
}

// Options configures a filter pass.
type Options struct {
	// IgnoreGlobs are project ignore rules, doublestar syntax, matched against
	// the full path.
	IgnoreGlobs []string
}

// Result is a strict partition of the input: every candidate path lands in
// exactly one of Accepted or Rejected.
type Result struct {
	Accepted []string
	Rejected []core.CandidatePath
}

// Apply classifies paths with three ordered checks, short-circuiting at the
// first match: ignore rules, extension allowlist, sensitive blocklist. Output
// ordering is lexicographic regardless of input order so reports are
// reproducible.
func Apply(paths []string, opts Options) Result {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var res Result
	for _, path := range sorted {
		if reason := classify(path, opts); reason != "" {
			res.Rejected = append(res.Rejected, core.CandidatePath{Path: path, Reason: reason})
			continue
		}
		res.Accepted = append(res.Accepted, path)
	}
	return res
}

func classify(path string, opts Options) string {
	normalized := filepath.ToSlash(path)

	for _, glob := range opts.IgnoreGlobs {
		if ok, err := doublestar.Match(glob, normalized); err == nil && ok {
			return ReasonIgnored
		}
		// Patterns without a slash are matched against the basename too, the
		// way .gitignore treats bare names.
		if !strings.Contains(glob, "/") {
			if ok, err := doublestar.Match(glob, filepath.Base(normalized)); err == nil && ok {
				return ReasonIgnored
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(normalized))
	if _, ok := allowedExtensions[ext]; !ok {
		return ReasonExtension
	}

	base := filepath.Base(normalized)
	for _, pattern := range sensitivePatterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return ReasonBlocked
		}
	}

	return ""
}
