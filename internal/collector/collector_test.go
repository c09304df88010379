package collector

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/reviewgate/internal/config"
	"github.com/sevigo/reviewgate/internal/core"
)

// fakeDiffer serves canned patches by path.
type fakeDiffer struct {
	patches map[string]string
}

func (f *fakeDiffer) FileDiff(_ context.Context, _ core.ReviewTarget, path string, _ int) string {
	return f.patches[path]
}

func patchWithChanges(path string, added, removed int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n@@ -1,%d +1,%d @@\n", path, path, path, path, removed, added)
	for i := 0; i < removed; i++ {
		fmt.Fprintf(&b, "-old line %d\n", i)
	}
	for i := 0; i < added; i++ {
		fmt.Fprintf(&b, "+new line %d\n", i)
	}
	return b.String()
}

func defaultGuard() config.Guardrails {
	return config.Guardrails{MaxFiles: 10, MaxDiffLines: 1000, MaxCharsPerFile: 100000}
}

func TestCollect_CountsAndOrder(t *testing.T) {
	git := &fakeDiffer{patches: map[string]string{
		"b.go": patchWithChanges("b.go", 3, 1),
		"a.go": patchWithChanges("a.go", 2, 2),
	}}
	c := New(git, nil)

	res := c.Collect(context.Background(), core.ReviewTarget{Mode: core.TargetStaged},
		[]string{"b.go", "a.go"}, defaultGuard(), 3)

	require.Len(t, res.Files, 2)
	assert.Equal(t, "a.go", res.Files[0].Path, "evaluation order must be sorted")
	assert.Equal(t, 2, res.Files[0].Additions)
	assert.Equal(t, 2, res.Files[0].Deletions)
	assert.Equal(t, 4, res.Files[0].ChangedLines)
	assert.Equal(t, 8, res.TotalChangedLines)
}

func TestCollect_MaxFilesGuardrail(t *testing.T) {
	git := &fakeDiffer{patches: map[string]string{
		"a.go": patchWithChanges("a.go", 1, 0),
		"b.go": patchWithChanges("b.go", 1, 0),
		"c.go": patchWithChanges("c.go", 1, 0),
	}}
	c := New(git, nil)

	guard := defaultGuard()
	guard.MaxFiles = 2
	res := c.Collect(context.Background(), core.ReviewTarget{Mode: core.TargetStaged},
		[]string{"c.go", "a.go", "b.go"}, guard, 3)

	require.Len(t, res.Files, 2)
	assert.Equal(t, "a.go", res.Files[0].Path)
	assert.Equal(t, "b.go", res.Files[1].Path)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "c.go", res.Skipped[0].Path)
	assert.Equal(t, ReasonMaxFiles, res.Skipped[0].Reason)
}

func TestCollect_MaxDiffLinesBudgetIsDeterministic(t *testing.T) {
	git := &fakeDiffer{patches: map[string]string{
		"a.go": patchWithChanges("a.go", 6, 0),
		"b.go": patchWithChanges("b.go", 6, 0),
		"c.go": patchWithChanges("c.go", 2, 0),
	}}
	c := New(git, nil)

	guard := defaultGuard()
	guard.MaxDiffLines = 9
	res := c.Collect(context.Background(), core.ReviewTarget{Mode: core.TargetStaged},
		[]string{"a.go", "b.go", "c.go"}, guard, 3)

	// a consumes 6; b would hit 12 and is skipped; c still fits at 8.
	require.Len(t, res.Files, 2)
	assert.Equal(t, "a.go", res.Files[0].Path)
	assert.Equal(t, "c.go", res.Files[1].Path)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, ReasonMaxDiffLines, res.Skipped[0].Reason)
	assert.Equal(t, 8, res.TotalChangedLines)
	assert.LessOrEqual(t, res.TotalChangedLines, guard.MaxDiffLines)
}

func TestCollect_SkipReasons(t *testing.T) {
	git := &fakeDiffer{patches: map[string]string{
		"empty.go":  "",
		"binary.db": "diff --git a/binary.db b/binary.db\nBinary files a/binary.db and b/binary.db differ\n",
		"nochg.go":  "diff --git a/nochg.go b/nochg.go\n--- a/nochg.go\n+++ b/nochg.go\n",
	}}
	c := New(git, nil)

	res := c.Collect(context.Background(), core.ReviewTarget{Mode: core.TargetStaged},
		[]string{"empty.go", "binary.db", "nochg.go"}, defaultGuard(), 3)

	assert.Empty(t, res.Files)
	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.Path] = s.Reason
	}
	assert.Equal(t, ReasonNoContent, reasons["empty.go"])
	assert.Equal(t, ReasonBinary, reasons["binary.db"])
	assert.Equal(t, ReasonNoChanges, reasons["nochg.go"])
}

func TestCollect_TruncationKeepsPreTruncationStats(t *testing.T) {
	patch := patchWithChanges("big.go", 50, 0)
	git := &fakeDiffer{patches: map[string]string{"big.go": patch}}
	c := New(git, nil)

	guard := defaultGuard()
	guard.MaxCharsPerFile = 120
	res := c.Collect(context.Background(), core.ReviewTarget{Mode: core.TargetStaged},
		[]string{"big.go"}, guard, 3)

	require.Len(t, res.Files, 1)
	f := res.Files[0]
	assert.True(t, f.Truncated)
	assert.True(t, strings.HasSuffix(f.Patch, TruncationMarker))
	assert.Len(t, f.Patch, 120+len(TruncationMarker))
	assert.Equal(t, 50, f.ChangedLines, "budget uses pre-truncation stats")
	assert.Equal(t, 50, res.TotalChangedLines)
}
