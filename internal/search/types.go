// Package search implements compound query decomposition and fused
// parallel search. A query judged compound is split into sub-queries by
// a deterministic strategy chain, the sub-queries run concurrently
// against a single-query index primitive, and the per-sub-query result
// lists are fused into one deduplicated, coverage-ranked list.
package search

import "context"

// Hit is one ranked match returned by the index for a single query.
type Hit struct {
	// ID is the opaque identity of the matched entity (e.g., a symbol id).
	// It is the deduplication key during fusion.
	ID string

	// Payload is whatever the index returns as the matched entity.
	// The search core never inspects it.
	Payload any

	// Score is the index's own non-negative relevance score.
	Score float64
}

// Filters restricts which documents a search may match.
// All fields are optional; zero values match everything.
type Filters struct {
	// Language filters results by programming language (e.g., "go", "python").
	Language string

	// Kind filters results by symbol kind (e.g., "function", "class").
	Kind string

	// PathPrefixes restricts results to files within these path prefixes.
	// Multiple prefixes use OR logic. Empty slice means no path filtering.
	PathPrefixes []string
}

// Searcher is the single capability this core consumes from the index:
// search one query, get ranked matches. Implementations must honor
// context cancellation.
type Searcher interface {
	Search(ctx context.Context, query string, filters Filters, limit int) ([]Hit, error)
}

// SearchFunc adapts a plain function to the Searcher interface.
type SearchFunc func(ctx context.Context, query string, filters Filters, limit int) ([]Hit, error)

// Search implements Searcher.
func (f SearchFunc) Search(ctx context.Context, query string, filters Filters, limit int) ([]Hit, error) {
	return f(ctx, query, filters, limit)
}

// RankedResult is one entry of the fused, re-ranked list returned to callers.
type RankedResult struct {
	// ID is the identity of the matched entity.
	ID string

	// Payload is the matched entity as returned by the index.
	Payload any

	// Score is the fused, coverage-adjusted relevance score.
	Score float64
}

// Strategy labels which splitting strategy produced a decomposition.
type Strategy string

const (
	// StrategyCombinedList handles comma lists with a trailing conjunction,
	// e.g. "auth, database, and API handling".
	StrategyCombinedList Strategy = "combined_list"

	// StrategyConjunction splits on conjunction tokens ("and", "or", ...).
	StrategyConjunction Strategy = "conjunction"

	// StrategyCompound splits on top-level commas.
	StrategyCompound Strategy = "compound"

	// StrategyMultiTopic synthesizes one sub-query per detected topic cluster.
	StrategyMultiTopic Strategy = "multi_topic"

	// StrategyMultiQuestion splits at question-marker word positions.
	StrategyMultiQuestion Strategy = "multi_question"

	// StrategySimple means no strategy split the query; the original is
	// used as the single sub-query.
	StrategySimple Strategy = "simple"
)

// Fixed per-strategy confidence values, used as a ranking modifier
// during fusion. Not learned, not tunable.
const (
	ConfidenceCombinedList  = 0.92
	ConfidenceConjunction   = 0.90
	ConfidenceCompound      = 0.85
	ConfidenceMultiTopic    = 0.75
	ConfidenceMultiQuestion = 0.70
	ConfidenceSimple        = 1.0
)

// DecomposedQuery is the value object produced by the Decomposer.
//
// Invariant: SubQueries is never empty. If no strategy produces more
// than one sub-query, it contains exactly the original query with
// strategy simple and confidence 1.0.
type DecomposedQuery struct {
	// Original is the untouched input query string.
	Original string

	// SubQueries is the ordered, deduplicated (case-insensitive) set of
	// sub-queries, each cleaned and at least the configured minimum length,
	// capped at the configured maximum count.
	SubQueries []string

	// Strategy identifies which splitting strategy produced SubQueries.
	Strategy Strategy

	// Confidence is the fixed per-strategy confidence in [0,1].
	Confidence float64
}

// IsSimple reports whether decomposition left the query whole.
func (d DecomposedQuery) IsSimple() bool {
	return d.Strategy == StrategySimple || len(d.SubQueries) <= 1
}
