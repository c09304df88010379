package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrRepoConfigNotFound = errors.New("repo config file not found")
	ErrRepoConfigParsing  = errors.New("repo config parsing failed")
)

// RepoConfig holds per-repository overrides read from .reviewgate.yml at the
// repository root. Everything is optional; zero values leave the global
// configuration untouched.
type RepoConfig struct {
	Provider      string   `yaml:"provider"`
	Model         string   `yaml:"model"`
	CompareBranch string   `yaml:"compare_branch"`
	Ignore        []string `yaml:"ignore"`
	ForceAI       bool     `yaml:"force_ai"`
}

// LoadRepoConfig loads and parses the .reviewgate.yml file from a repository path.
func LoadRepoConfig(repoPath string) (*RepoConfig, error) {
	configPath := filepath.Join(repoPath, ".reviewgate.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &RepoConfig{}, ErrRepoConfigNotFound
		}
		return nil, fmt.Errorf("failed to read .reviewgate.yml: %w", err)
	}

	rc := &RepoConfig{}
	if err := yaml.Unmarshal(data, rc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepoConfigParsing, err)
	}
	return rc, nil
}

// Apply merges the repo-level overrides into a Config.
func (rc *RepoConfig) Apply(cfg *Config) {
	if rc.Provider != "" {
		cfg.Provider = rc.Provider
	}
	if rc.Model != "" {
		cfg.Model = rc.Model
	}
	if rc.CompareBranch != "" {
		cfg.CompareBranch = rc.CompareBranch
	}
	if len(rc.Ignore) > 0 {
		cfg.IgnoreGlobs = append(cfg.IgnoreGlobs, rc.Ignore...)
	}
	if rc.ForceAI {
		cfg.ForceAI = true
	}
}
