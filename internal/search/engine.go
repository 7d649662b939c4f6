package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	symerrors "github.com/symscope/symscope/internal/errors"
)

// Engine is the public entry point of the package. It owns the
// classify -> decompose -> execute -> fuse pipeline and a small LRU
// cache of decomposition results. The engine itself holds no per-query
// mutable state and is safe for concurrent use.
type Engine struct {
	cfg        Config
	index      Searcher
	classifier *Classifier
	decomposer *Decomposer
	executor   *Executor
	fuser      *Fuser
	cache      *lru.Cache[string, DecomposedQuery]
	logger     *slog.Logger
}

// NewEngine creates an engine over the given index primitive.
func NewEngine(index Searcher, cfg Config, logger *slog.Logger) (*Engine, error) {
	if index == nil {
		return nil, symerrors.InternalError("search engine requires an index", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := lru.New[string, DecomposedQuery](cfg.DecomposeCacheSize)
	if err != nil {
		return nil, symerrors.InternalError("create decomposition cache", err)
	}

	return &Engine{
		cfg:        cfg,
		index:      index,
		classifier: NewClassifier(cfg),
		decomposer: NewDecomposer(cfg),
		executor:   NewExecutor(index, cfg, logger),
		fuser:      NewFuser(cfg),
		cache:      cache,
		logger:     logger,
	}, nil
}

// Search runs the full pipeline for one query.
//
// Simple queries (by classification, or when decomposition leaves the
// query whole) bypass fan-out and fusion entirely: they run one index
// search and return the index's scores untouched. An empty or
// whitespace-only query returns no results and no error.
func (e *Engine) Search(ctx context.Context, query string, filters Filters, limit int, parallel bool) ([]RankedResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}

	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}

	if !e.classifier.IsComplex(trimmed) {
		return e.searchDirect(ctx, trimmed, filters, limit)
	}

	decomposed := e.Decompose(trimmed)
	if decomposed.IsSimple() {
		return e.searchDirect(ctx, trimmed, filters, limit)
	}

	start := time.Now()
	perSubQuery, err := e.executor.Execute(ctx, decomposed.SubQueries, filters, limit, parallel)
	if err != nil {
		return nil, err
	}

	results := e.fuser.Fuse(perSubQuery, decomposed, limit)

	e.logger.Debug("fused search complete",
		slog.String("strategy", string(decomposed.Strategy)),
		slog.Int("sub_queries", len(decomposed.SubQueries)),
		slog.Int("results", len(results)),
		slog.Bool("parallel", parallel),
		slog.Duration("elapsed", time.Since(start)))

	return results, nil
}

// Decompose returns the cached decomposition for the query, computing
// and caching it on miss. Exposed so callers can explain a query's
// decomposition without running the search.
func (e *Engine) Decompose(query string) DecomposedQuery {
	key := strings.ToLower(strings.TrimSpace(query))
	if d, ok := e.cache.Get(key); ok {
		return d
	}
	d := e.decomposer.Decompose(strings.TrimSpace(query))
	e.cache.Add(key, d)
	return d
}

// searchDirect is the simple-query path: one index search, scores
// passed through unmodified.
func (e *Engine) searchDirect(ctx context.Context, query string, filters Filters, limit int) ([]RankedResult, error) {
	hits, err := e.index.Search(ctx, query, filters, limit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, symerrors.New(symerrors.ErrCodeSearchFailed, "search failed", err)
	}

	out := make([]RankedResult, len(hits))
	for i, h := range hits {
		out[i] = RankedResult{ID: h.ID, Payload: h.Payload, Score: h.Score}
	}
	return out, nil
}
