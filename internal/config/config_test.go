package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Provider: "anthropic",
		Guardrails: Guardrails{
			MaxFiles:        30,
			MaxDiffLines:    4000,
			MaxCharsPerFile: 24000,
		},
		MaxConcurrency: 3,
		MaxAttempts:    3,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero max files", func(c *Config) { c.Guardrails.MaxFiles = 0 }, "MAX_FILES"},
		{"zero max diff lines", func(c *Config) { c.Guardrails.MaxDiffLines = 0 }, "MAX_DIFF_LINES"},
		{"zero max chars", func(c *Config) { c.Guardrails.MaxCharsPerFile = 0 }, "MAX_CHARS_PER_FILE"},
		{"zero concurrency", func(c *Config) { c.MaxConcurrency = 0 }, "MAX_CONCURRENCY"},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, "MAX_ATTEMPTS"},
		{"empty provider", func(c *Config) { c.Provider = "" }, "PROVIDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "openai", []string{"openai"}},
		{"multiple with spaces", "openai, ollama , gemini", []string{"openai", "ollama", "gemini"}},
		{"trailing comma", "openai,", []string{"openai"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.input))
		})
	}
}

func TestLoadRepoConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		rc, err := LoadRepoConfig(t.TempDir())
		assert.ErrorIs(t, err, ErrRepoConfigNotFound)
		assert.NotNil(t, rc)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".reviewgate.yml"), []byte("provider: [unclosed"), 0o644))
		_, err := LoadRepoConfig(dir)
		assert.ErrorIs(t, err, ErrRepoConfigParsing)
	})

	t.Run("valid overrides", func(t *testing.T) {
		dir := t.TempDir()
		content := "provider: ollama\ncompare_branch: develop\nignore:\n  - \"vendor/**\"\nforce_ai: true\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".reviewgate.yml"), []byte(content), 0o644))

		rc, err := LoadRepoConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "ollama", rc.Provider)
		assert.Equal(t, "develop", rc.CompareBranch)
		assert.Equal(t, []string{"vendor/**"}, rc.Ignore)
		assert.True(t, rc.ForceAI)
	})
}

func TestRepoConfigApply(t *testing.T) {
	cfg := validConfig()
	cfg.CompareBranch = "main"
	cfg.IgnoreGlobs = []string{"docs/**"}

	rc := &RepoConfig{
		Provider:      "gemini",
		CompareBranch: "develop",
		Ignore:        []string{"vendor/**"},
	}
	rc.Apply(cfg)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "develop", cfg.CompareBranch)
	assert.Equal(t, []string{"docs/**", "vendor/**"}, cfg.IgnoreGlobs, "repo ignores extend global ignores")
	assert.False(t, cfg.ForceAI, "unset override leaves the global value")

	empty := &RepoConfig{}
	empty.Apply(cfg)
	assert.Equal(t, "gemini", cfg.Provider, "empty override changes nothing")
}
