// Package config handles loading and managing CodeLens configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for CodeLens.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ServerConfig controls the local dashboard server.
type ServerConfig struct {
	Port          int    `yaml:"port"`
	APIKey        string `yaml:"api_key"`
	AllowedOrigin string `yaml:"allowed_origin"`
}

// StorageConfig selects where graph builds are persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // local, s3, or gcs
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Dir     string `yaml:"dir"` // local backend only
}

// AnalysisConfig controls derived-view sizing. Risk thresholds are fixed
// constants, not configuration.
type AnalysisConfig struct {
	MaxDepth      int `yaml:"max_depth"`       // 0 = unlimited traversal
	MatrixMaxSize int `yaml:"matrix_max_size"` // rendered matrix cap
	TopFiles      int `yaml:"top_files"`
	CacheSize     int `yaml:"cache_size"` // graphs held in the server LRU
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          7180,
			AllowedOrigin: "*",
		},
		Storage: StorageConfig{
			Backend: "local",
		},
		Analysis: AnalysisConfig{
			MatrixMaxSize: 60,
			TopFiles:      10,
			CacheSize:     8,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .codelens/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".codelens", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the cache directory for a given repository path.
// Uses ~/.cache/codelens/<repo-slug>/ to avoid polluting the repo.
func CacheDir(repoPath string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	slug := repoSlug(repoPath)
	return filepath.Join(home, ".cache", "codelens", slug)
}

// GraphDir returns the graph-build storage directory for a repository.
func GraphDir(repoPath string) string {
	return filepath.Join(CacheDir(repoPath), "graphs")
}

// DeltaDir returns the graph-diff storage directory for a repository.
func DeltaDir(repoPath string) string {
	return filepath.Join(CacheDir(repoPath), "deltas")
}

// repoSlug creates a filesystem-safe identifier from a repository path.
// Uses the last two path components (e.g., "user_myrepo" from "/home/user/myrepo").
func repoSlug(repoPath string) string {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		abs = repoPath
	}
	dir := filepath.Base(filepath.Dir(abs))
	base := filepath.Base(abs)
	return dir + "_" + base
}
