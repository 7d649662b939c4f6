// Package config loads and persists the project-level .symscope.yaml
// configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	symerrors "github.com/symscope/symscope/internal/errors"
	"github.com/symscope/symscope/internal/search"
)

// ConfigFileName is the per-project configuration file name.
const ConfigFileName = ".symscope.yaml"

// Config is the persisted project configuration.
type Config struct {
	Version int           `yaml:"version"`
	Search  SearchConfig  `yaml:"search"`
	Index   IndexConfig   `yaml:"index"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig tunes query decomposition and fusion.
type SearchConfig struct {
	// MaxResults is the default result limit for searches.
	MaxResults int `yaml:"max_results"`

	// Parallel toggles concurrent sub-query execution.
	Parallel bool `yaml:"parallel"`

	// WorkerLimit caps concurrent sub-query searches.
	WorkerLimit int `yaml:"worker_limit"`

	// MaxSubQueries caps how many sub-queries one query decomposes into.
	MaxSubQueries int `yaml:"max_sub_queries"`

	// MinSubQueryLength drops decomposed segments shorter than this.
	MinSubQueryLength int `yaml:"min_sub_query_length"`

	// OverFetchFactor multiplies the limit for per-sub-query fetches.
	OverFetchFactor int `yaml:"over_fetch_factor"`

	// CoverageWeight scales the multi-sub-query coverage bonus.
	CoverageWeight float64 `yaml:"coverage_weight"`
}

// IndexConfig controls which files the scanner indexes.
type IndexConfig struct {
	// Exclude lists directory names skipped during scanning, in
	// addition to the built-in skip list.
	Exclude []string `yaml:"exclude,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	sc := search.DefaultConfig()
	return &Config{
		Version: 1,
		Search: SearchConfig{
			MaxResults:        sc.DefaultLimit,
			Parallel:          true,
			WorkerLimit:       sc.WorkerLimit,
			MaxSubQueries:     sc.MaxSubQueries,
			MinSubQueryLength: sc.MinSubQueryLength,
			OverFetchFactor:   sc.OverFetchFactor,
			CoverageWeight:    sc.CoverageWeight,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// SearchOptions converts the persisted settings into the engine config,
// leaving unset fields at their defaults.
func (c *Config) SearchOptions() search.Config {
	sc := search.DefaultConfig()
	if c.Search.MaxResults > 0 {
		sc.DefaultLimit = c.Search.MaxResults
	}
	if c.Search.WorkerLimit > 0 {
		sc.WorkerLimit = c.Search.WorkerLimit
	}
	if c.Search.MaxSubQueries > 0 {
		sc.MaxSubQueries = c.Search.MaxSubQueries
	}
	if c.Search.MinSubQueryLength > 0 {
		sc.MinSubQueryLength = c.Search.MinSubQueryLength
	}
	if c.Search.OverFetchFactor > 0 {
		sc.OverFetchFactor = c.Search.OverFetchFactor
	}
	if c.Search.CoverageWeight > 0 {
		sc.CoverageWeight = c.Search.CoverageWeight
	}
	return sc
}

// Load reads the configuration from dir, returning defaults when no
// file exists.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, symerrors.New(symerrors.ErrCodeConfigNotFound, "read config", err).
			WithDetail("path", path)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, symerrors.ConfigError("parse config", err).
			WithDetail("path", path).
			WithSuggestion("check YAML syntax in " + ConfigFileName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to dir.
func (c *Config) Save(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return symerrors.InternalError("marshal config", err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return symerrors.ConfigError("write config", err).WithDetail("path", path)
	}
	return nil
}

// Validate checks the persisted settings for out-of-range values.
func (c *Config) Validate() error {
	if c.Search.MaxResults < 0 {
		return symerrors.ConfigError(fmt.Sprintf("max_results must be non-negative, got %d", c.Search.MaxResults), nil)
	}
	if c.Search.WorkerLimit < 0 {
		return symerrors.ConfigError(fmt.Sprintf("worker_limit must be non-negative, got %d", c.Search.WorkerLimit), nil)
	}
	if c.Search.CoverageWeight < 0 {
		return symerrors.ConfigError(fmt.Sprintf("coverage_weight must be non-negative, got %g", c.Search.CoverageWeight), nil)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return symerrors.ConfigError(fmt.Sprintf("unknown logging level %q", c.Logging.Level), nil)
	}
	return nil
}

// FindProjectRoot walks upward from start looking for a project marker
// (.symscope.yaml, .git, go.mod or package.json). Falls back to start.
func FindProjectRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}

	for {
		for _, marker := range []string{ConfigFileName, ".git", "go.mod", "package.json"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	abs, _ := filepath.Abs(start)
	return abs
}

// DataDir returns the per-project data directory holding the index.
func DataDir(root string) string {
	return filepath.Join(root, ".symscope")
}

// IndexPath returns the on-disk index location for a project root.
func IndexPath(root string) string {
	return filepath.Join(DataDir(root), "index.bleve")
}
