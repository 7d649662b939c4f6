package search

import (
	"fmt"

	symerrors "github.com/symscope/symscope/internal/errors"
)

// Ranking constants. The coverage weight and the confidence blend are
// fixed design parameters of the fusion formula, not learned values.
const (
	// DefaultCoverageWeight scales the bonus for results matched by
	// multiple sub-queries: score × (1 + coverage × weight).
	DefaultCoverageWeight = 0.3

	// DefaultConfidenceBase and DefaultConfidenceWeight blend the
	// decomposition confidence into the final score:
	// × (base + confidence × weight).
	DefaultConfidenceBase   = 0.8
	DefaultConfidenceWeight = 0.2
)

// Config configures the search engine. All fields have sane defaults;
// construct with DefaultConfig and override selectively.
type Config struct {
	// DefaultLimit is the number of results returned when the caller
	// passes limit <= 0 (default: 10).
	DefaultLimit int

	// MaxLimit caps the caller-requested limit (default: 100).
	MaxLimit int

	// MinSubQueryLength is the minimum length of a cleaned sub-query;
	// shorter segments are discarded (default: 3).
	MinSubQueryLength int

	// MaxSubQueries caps the decomposition output (default: 5).
	MaxSubQueries int

	// WorkerLimit caps concurrent in-flight sub-query searches
	// (default: 4). The effective pool size is
	// min(len(subQueries), WorkerLimit).
	WorkerLimit int

	// OverFetchFactor multiplies the requested limit for each sub-query
	// search, giving fusion enough candidates to re-rank by coverage
	// without re-querying (default: 2).
	OverFetchFactor int

	// CoverageWeight is the coverage bonus multiplier (default: 0.3).
	CoverageWeight float64

	// ConfidenceBase and ConfidenceWeight blend strategy confidence
	// into fused scores (defaults: 0.8 / 0.2).
	ConfidenceBase   float64
	ConfidenceWeight float64

	// MaxSimpleLength and MaxSimpleWords are the complexity thresholds:
	// a query longer than MaxSimpleLength characters AND more than
	// MaxSimpleWords words is classified complex (defaults: 50 / 6).
	MaxSimpleLength int
	MaxSimpleWords  int

	// ContextInheritLimit: combined-list sub-queries shorter than this
	// inherit the list-introducing context phrase (default: 15).
	// This threshold is a tunable heuristic, not a guaranteed behavior.
	ContextInheritLimit int

	// DecomposeCacheSize is the LRU cache size for decomposition
	// results (default: 1024).
	DecomposeCacheSize int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:        10,
		MaxLimit:            100,
		MinSubQueryLength:   3,
		MaxSubQueries:       5,
		WorkerLimit:         4,
		OverFetchFactor:     2,
		CoverageWeight:      DefaultCoverageWeight,
		ConfidenceBase:      DefaultConfidenceBase,
		ConfidenceWeight:    DefaultConfidenceWeight,
		MaxSimpleLength:     50,
		MaxSimpleWords:      6,
		ContextInheritLimit: 15,
		DecomposeCacheSize:  1024,
	}
}

// Validate rejects invalid configuration at construction time so a bad
// setting is never discovered mid-request.
func (c Config) Validate() error {
	if c.WorkerLimit <= 0 {
		return symerrors.ConfigError(fmt.Sprintf("worker limit must be positive, got %d", c.WorkerLimit), nil)
	}
	if c.MaxSubQueries <= 0 {
		return symerrors.ConfigError(fmt.Sprintf("max sub-queries must be positive, got %d", c.MaxSubQueries), nil)
	}
	if c.MinSubQueryLength < 1 {
		return symerrors.ConfigError(fmt.Sprintf("min sub-query length must be at least 1, got %d", c.MinSubQueryLength), nil)
	}
	if c.OverFetchFactor < 1 {
		return symerrors.ConfigError(fmt.Sprintf("over-fetch factor must be at least 1, got %d", c.OverFetchFactor), nil)
	}
	if c.CoverageWeight < 0 {
		return symerrors.ConfigError(fmt.Sprintf("coverage weight must be non-negative, got %g", c.CoverageWeight), nil)
	}
	if c.DefaultLimit <= 0 || c.MaxLimit <= 0 {
		return symerrors.ConfigError("result limits must be positive", nil)
	}
	if c.DecomposeCacheSize <= 0 {
		return symerrors.ConfigError(fmt.Sprintf("decompose cache size must be positive, got %d", c.DecomposeCacheSize), nil)
	}
	return nil
}
