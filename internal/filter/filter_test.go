package filter

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_DefaultRules(t *testing.T) {
	res := Apply([]string{"a.env", "b.ts", "c.min.js", "d.md"}, Options{})

	assert.Equal(t, []string{"b.ts", "d.md"}, res.Accepted)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, "a.env", res.Rejected[0].Path)
	assert.Equal(t, ReasonBlocked, res.Rejected[0].Reason)
	assert.Equal(t, "c.min.js", res.Rejected[1].Path)
	assert.Equal(t, ReasonBlocked, res.Rejected[1].Reason)
}

func TestApply_CheckOrder(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		opts   Options
		reason string
	}{
		{
			name:   "ignore rule wins over blocklist",
			path:   "vendor/creds.env",
			opts:   Options{IgnoreGlobs: []string{"vendor/**"}},
			reason: ReasonIgnored,
		},
		{
			name:   "extension check before blocklist",
			path:   "dump.tar.gz",
			reason: ReasonExtension,
		},
		{
			name:   "sensitive key file",
			path:   "deploy/server.pem",
			reason: ReasonBlocked,
		},
		{
			name:   "lockfile",
			path:   "package-lock.json",
			reason: ReasonBlocked,
		},
		{
			name:   "service account json",
			path:   "ci/prod-service-account-key.json",
			reason: ReasonBlocked,
		},
		{
			name:   "basename ignore glob",
			path:   "internal/generated.go",
			opts:   Options{IgnoreGlobs: []string{"generated.go"}},
			reason: ReasonIgnored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply([]string{tt.path}, tt.opts)
			require.Len(t, res.Rejected, 1)
			assert.Equal(t, tt.reason, res.Rejected[0].Reason)
		})
	}
}

func TestApply_StrictPartition(t *testing.T) {
	paths := []string{
		"z.go", "a.go", ".env", "README.md", "image.png",
		"src/app.ts", "node_modules/x.js", "main_test.go",
	}
	res := Apply(paths, Options{IgnoreGlobs: []string{"node_modules/**"}})

	total := len(res.Accepted) + len(res.Rejected)
	assert.Equal(t, len(paths), total, "every path must land in exactly one bucket")

	seen := map[string]int{}
	for _, p := range res.Accepted {
		seen[p]++
	}
	for _, r := range res.Rejected {
		seen[r.Path]++
	}
	for p, n := range seen {
		assert.Equalf(t, 1, n, "path %s classified %d times", p, n)
	}
}

func TestApply_OutputIsSorted(t *testing.T) {
	res := Apply([]string{"c.go", "a.go", "b.go"}, Options{})
	assert.True(t, sort.StringsAreSorted(res.Accepted))
}
