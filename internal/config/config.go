package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/reviewgate/internal/logger"
)

// Guardrails are the hard limits applied while collecting diffs. They bound
// what can reach the model, regardless of how large the change-set is.
type Guardrails struct {
	MaxFiles        int
	MaxDiffLines    int
	MaxCharsPerFile int
}

// DBConfig holds the optional review-history database settings. The history
// store is disabled when DSN is empty.
type DBConfig struct {
	DSN             string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Config holds the application's configuration values.
type Config struct {
	Provider          string
	Model             string
	FallbackProviders []string

	Guardrails     Guardrails
	MaxConcurrency int
	MaxAttempts    int
	CallTimeout    time.Duration
	ContextLines   int

	// TokenLimitOverride replaces the provider's default context-window size
	// when greater than zero.
	TokenLimitOverride int
	PromptVersion      string

	// AIEnabled controls whether the model is consulted at all. Staged targets
	// default to AI off unless ForceAI is set.
	AIEnabled bool
	ForceAI   bool

	CompareBranch string
	IgnoreGlobs   []string

	CacheEnabled bool
	CacheDir     string

	ServerPort string
	Logging    logger.Config
	Database   DBConfig
}

// LoadConfig reads configuration from environment variables and an optional
// .env file, sets defaults, and validates the guardrail values. It uses the
// Viper library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("PROVIDER", "anthropic")
	viper.SetDefault("MODEL", "")
	viper.SetDefault("FALLBACK_PROVIDERS", "")
	viper.SetDefault("MAX_FILES", 30)
	viper.SetDefault("MAX_DIFF_LINES", 4000)
	viper.SetDefault("MAX_CHARS_PER_FILE", 24000)
	viper.SetDefault("MAX_CONCURRENCY", 3)
	viper.SetDefault("MAX_ATTEMPTS", 3)
	viper.SetDefault("CALL_TIMEOUT", "120s")
	viper.SetDefault("CONTEXT_LINES", 3)
	viper.SetDefault("TOKEN_LIMIT_OVERRIDE", 0)
	viper.SetDefault("PROMPT_VERSION", "v1")
	viper.SetDefault("AI_ENABLED", true)
	viper.SetDefault("COMPARE_BRANCH", "main")
	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("CACHE_DIR", "")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stderr")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A missing .env is fine; a broken one is not fatal either, the
			// environment still applies.
			_ = err
		}
	}

	cfg := &Config{
		Provider:          viper.GetString("PROVIDER"),
		Model:             viper.GetString("MODEL"),
		FallbackProviders: splitList(viper.GetString("FALLBACK_PROVIDERS")),
		Guardrails: Guardrails{
			MaxFiles:        viper.GetInt("MAX_FILES"),
			MaxDiffLines:    viper.GetInt("MAX_DIFF_LINES"),
			MaxCharsPerFile: viper.GetInt("MAX_CHARS_PER_FILE"),
		},
		MaxConcurrency:     viper.GetInt("MAX_CONCURRENCY"),
		MaxAttempts:        viper.GetInt("MAX_ATTEMPTS"),
		CallTimeout:        viper.GetDuration("CALL_TIMEOUT"),
		ContextLines:       viper.GetInt("CONTEXT_LINES"),
		TokenLimitOverride: viper.GetInt("TOKEN_LIMIT_OVERRIDE"),
		PromptVersion:      viper.GetString("PROMPT_VERSION"),
		AIEnabled:          viper.GetBool("AI_ENABLED"),
		CompareBranch:      viper.GetString("COMPARE_BRANCH"),
		IgnoreGlobs:        splitList(viper.GetString("IGNORE_GLOBS")),
		CacheEnabled:       viper.GetBool("CACHE_ENABLED"),
		CacheDir:           viper.GetString("CACHE_DIR"),
		ServerPort:         viper.GetString("SERVER_PORT"),
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		Database: DBConfig{
			DSN:             viper.GetString("DATABASE_DSN"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that would make the pipeline misbehave.
func (c *Config) Validate() error {
	if c.Guardrails.MaxFiles < 1 {
		return fmt.Errorf("MAX_FILES must be >= 1, got %d", c.Guardrails.MaxFiles)
	}
	if c.Guardrails.MaxDiffLines < 1 {
		return fmt.Errorf("MAX_DIFF_LINES must be >= 1, got %d", c.Guardrails.MaxDiffLines)
	}
	if c.Guardrails.MaxCharsPerFile < 1 {
		return fmt.Errorf("MAX_CHARS_PER_FILE must be >= 1, got %d", c.Guardrails.MaxCharsPerFile)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("MAX_CONCURRENCY must be >= 1, got %d", c.MaxConcurrency)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("MAX_ATTEMPTS must be >= 1, got %d", c.MaxAttempts)
	}
	if c.Provider == "" {
		return fmt.Errorf("PROVIDER must be set")
	}
	return nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
