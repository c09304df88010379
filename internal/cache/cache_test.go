package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/reviewgate/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewStore(t.TempDir(), logger)
	require.NoError(t, err)
	return store
}

func sampleInput() KeyInput {
	return KeyInput{
		Provider:      "anthropic",
		Model:         "claude-sonnet-4-20250514",
		PromptVersion: "v1",
		ToolVersion:   "0.1.0",
		FilePath:      "internal/app/app.go",
		SystemPrompt:  "You are a reviewer.",
		Payload:       "@@ -1 +1 @@\n-old\n+new",
	}
}

func TestKey_Deterministic(t *testing.T) {
	in := sampleInput()
	assert.Equal(t, Key(in), Key(in))
	assert.Len(t, Key(in), 64)
}

func TestKey_SensitiveToEveryField(t *testing.T) {
	base := Key(sampleInput())

	mutations := map[string]func(*KeyInput){
		"provider":      func(in *KeyInput) { in.Provider = "openai" },
		"model":         func(in *KeyInput) { in.Model = "gpt-4o" },
		"promptVersion": func(in *KeyInput) { in.PromptVersion = "v2" },
		"toolVersion":   func(in *KeyInput) { in.ToolVersion = "0.2.0" },
		"filePath":      func(in *KeyInput) { in.FilePath = "other.go" },
		"systemPrompt":  func(in *KeyInput) { in.SystemPrompt = "different" },
		"payload":       func(in *KeyInput) { in.Payload = "other diff" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := sampleInput()
			mutate(&in)
			assert.NotEqual(t, base, Key(in))
		})
	}
}

func TestKey_NoFieldBleed(t *testing.T) {
	a := sampleInput()
	a.Provider = "ab"
	a.Model = "c"
	b := sampleInput()
	b.Provider = "a"
	b.Model = "bc"
	assert.NotEqual(t, Key(a), Key(b))
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	in := sampleInput()
	key := Key(in)

	result := core.AuditResult{
		Status: core.StatusFail,
		Issues: []core.AuditIssue{
			{Line: 12, Severity: core.SeverityCritical, Message: "unchecked error"},
		},
		Message: "one critical issue",
	}
	store.Put(key, in, result)

	got, hit := store.Get(key)
	require.True(t, hit)
	assert.Equal(t, result, got)
}

func TestStore_MissOnUnknownKey(t *testing.T) {
	store := newTestStore(t)
	_, hit := store.Get(Key(sampleInput()))
	assert.False(t, hit)
}

func TestStore_CorruptedEntryIsMiss(t *testing.T) {
	store := newTestStore(t)
	in := sampleInput()
	key := Key(in)
	store.Put(key, in, core.AuditResult{Status: core.StatusPass, Issues: []core.AuditIssue{}})

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), key+".json"), []byte("{not json"), 0o644))

	_, hit := store.Get(key)
	assert.False(t, hit, "a corrupted entry must behave like a miss")
}

func TestStore_StatsAndClear(t *testing.T) {
	store := newTestStore(t)

	for _, path := range []string{"a.go", "b.go", "c.go"} {
		in := sampleInput()
		in.FilePath = path
		store.Put(Key(in), in, core.AuditResult{Status: core.StatusPass, Issues: []core.AuditIssue{}})
	}

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Positive(t, stats.SizeBytes)

	removed, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	stats, err = store.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}
