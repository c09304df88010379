package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sevigo/reviewgate/internal/core"
)

// KeyInput carries every value that influences a model reply. Changing any
// of them must produce a different cache key, otherwise a stale verdict from
// an older prompt or model would be served for new input.
type KeyInput struct {
	Provider      string
	Model         string
	PromptVersion string
	ToolVersion   string
	FilePath      string
	SystemPrompt  string
	Payload       string
}

// Key derives the deterministic cache key for one audit call.
func Key(in KeyInput) string {
	h := sha256.New()
	for _, part := range []string{
		in.Provider,
		in.Model,
		in.PromptVersion,
		in.ToolVersion,
		in.FilePath,
		in.SystemPrompt,
		in.Payload,
	} {
		// Length prefix keeps adjacent fields from bleeding into each other.
		fmt.Fprintf(h, "%d:%s", len(part), part)
	}
	return hex.EncodeToString(h.Sum(nil))
}

type entry struct {
	Key       string           `json:"key"`
	Provider  string           `json:"provider"`
	Model     string           `json:"model"`
	FilePath  string           `json:"filePath"`
	Result    core.AuditResult `json:"result"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Store is a content-addressed file cache for audit results. Entries never
// expire: the key already encodes everything that could invalidate them.
// Reads fail open, a missing or corrupted entry is reported as a miss and
// never aborts a review.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates the cache directory if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user cache dir: %w", err)
		}
		dir = filepath.Join(base, "reviewgate")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the directory entries are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Get looks up a previous result by key. The second return is false on any
// miss, including unreadable or corrupted entries.
func (s *Store) Get(key string) (core.AuditResult, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cache entry unreadable, treating as miss", "key", key, "error", err)
		}
		return core.AuditResult{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		s.logger.Warn("cache entry corrupted, treating as miss", "key", key)
		return core.AuditResult{}, false
	}
	if e.Result.Issues == nil {
		e.Result.Issues = []core.AuditIssue{}
	}
	return e.Result, true
}

// Put stores a result under key. Write failures are logged and swallowed;
// the review already has its result, the cache is an optimization.
func (s *Store) Put(key string, in KeyInput, result core.AuditResult) {
	e := entry{
		Key:       key,
		Provider:  in.Provider,
		Model:     in.Model,
		FilePath:  in.FilePath,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		s.logger.Warn("failed to write cache entry", "key", key, "error", err)
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.logger.Warn("failed to write cache entry", "key", key, "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.logger.Warn("failed to write cache entry", "key", key, "error", err)
		return
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		s.logger.Warn("failed to store cache entry", "key", key, "error", err)
	}
}

// Stats summarizes the cache contents.
type Stats struct {
	Dir       string
	Entries   int
	SizeBytes int64
}

// Stats walks the cache directory and counts stored entries.
func (s *Store) Stats() (Stats, error) {
	stats := Stats{Dir: s.dir}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return stats, fmt.Errorf("reading cache dir: %w", err)
	}
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.SizeBytes += info.Size()
	}
	return stats, nil
}

// Clear removes every stored entry but keeps the directory.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache dir: %w", err)
	}
	removed := 0
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, de.Name())); err != nil {
			return removed, fmt.Errorf("removing cache entry %s: %w", de.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
