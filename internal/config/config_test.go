package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.True(t, cfg.Search.Parallel)
	assert.Equal(t, 4, cfg.Search.WorkerLimit)
	assert.Equal(t, 5, cfg.Search.MaxSubQueries)
	assert.Equal(t, 2, cfg.Search.OverFetchFactor)
	assert.InDelta(t, 0.3, cfg.Search.CoverageWeight, 1e-9)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := NewConfig()
	cfg.Search.MaxResults = 25
	cfg.Search.Parallel = false
	cfg.Index.Exclude = []string{"generated", "third_party"}
	cfg.Logging.Level = "debug"

	require.NoError(t, cfg.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("search: [not a map"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"negative max_results", func(c *Config) { c.Search.MaxResults = -1 }, true},
		{"negative worker_limit", func(c *Config) { c.Search.WorkerLimit = -2 }, true},
		{"negative coverage_weight", func(c *Config) { c.Search.CoverageWeight = -0.1 }, true},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty log level allowed", func(c *Config) { c.Logging.Level = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSearchOptionsOverrides(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.MaxResults = 42
	cfg.Search.WorkerLimit = 8
	cfg.Search.CoverageWeight = 0.5

	sc := cfg.SearchOptions()
	assert.Equal(t, 42, sc.DefaultLimit)
	assert.Equal(t, 8, sc.WorkerLimit)
	assert.InDelta(t, 0.5, sc.CoverageWeight, 1e-9)
	// Untouched settings keep engine defaults.
	assert.Equal(t, 5, sc.MaxSubQueries)
	assert.Equal(t, 100, sc.MaxLimit)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got := FindProjectRoot(nested)
	// Resolve symlinks so the comparison survives /tmp -> /private/tmp.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, wantResolved, gotResolved)
}

func TestIndexPath(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", ".symscope", "index.bleve"), IndexPath("proj"))
}
