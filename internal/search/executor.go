package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	symerrors "github.com/symscope/symscope/internal/errors"
)

// Executor runs one index search per sub-query with bounded fan-out and
// collects the per-sub-query result lists. Workers share nothing
// mutable: each writes only its own slot of a pre-sized slice, and the
// fan-in merge happens single-threaded after the barrier.
type Executor struct {
	search      Searcher
	workerLimit int
	overFetch   int
	logger      *slog.Logger
}

// subResult is one worker's output slot.
type subResult struct {
	subQuery string
	hits     []Hit
	err      error
}

// NewExecutor creates an executor over the given index primitive.
func NewExecutor(search Searcher, cfg Config, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		search:      search,
		workerLimit: cfg.WorkerLimit,
		overFetch:   cfg.OverFetchFactor,
		logger:      logger,
	}
}

// Execute searches every sub-query and returns hits keyed by sub-query.
// Each sub-query is fetched with limit*overFetch candidates so fusion
// can re-rank by coverage without going back to the index.
//
// Individual sub-query failures are tolerated: the failed sub-query
// simply contributes no results. Only when every sub-query fails does
// Execute return an error carrying all underlying causes. Context
// cancellation aborts outstanding work and is returned as-is.
func (e *Executor) Execute(ctx context.Context, subQueries []string, filters Filters, limit int, parallel bool) (map[string][]Hit, error) {
	if len(subQueries) == 0 {
		return map[string][]Hit{}, nil
	}

	perLimit := limit * e.overFetch

	// A single sub-query needs no fan-out machinery.
	if len(subQueries) == 1 {
		hits, err := e.search.Search(ctx, subQueries[0], filters, perLimit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, symerrors.AllSubQueriesFailed([]error{err})
		}
		return map[string][]Hit{subQueries[0]: hits}, nil
	}

	results := make([]subResult, len(subQueries))

	if parallel {
		if err := e.runParallel(ctx, subQueries, filters, perLimit, results); err != nil {
			return nil, err
		}
	} else {
		if err := e.runSequential(ctx, subQueries, filters, perLimit, results); err != nil {
			return nil, err
		}
	}

	// Cancellation wins over the partial-failure policy: a cancelled run
	// reports the context error, not an aggregate search failure.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return e.collect(results)
}

// runParallel fans the sub-queries out over a bounded worker pool.
// Search errors are recorded in the worker's slot, not propagated, so
// one slow or failing sub-query never cancels its siblings.
func (e *Executor) runParallel(ctx context.Context, subQueries []string, filters Filters, perLimit int, results []subResult) error {
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, min(len(subQueries), e.workerLimit))

	for i, sq := range subQueries {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			hits, err := e.search.Search(gctx, sq, filters, perLimit)
			results[i] = subResult{subQuery: sq, hits: hits, err: err}
			return nil
		})
	}

	return g.Wait()
}

// runSequential runs the sub-queries one at a time, in order, checking
// cancellation between searches. Used for debugging and comparison runs;
// results are identical to the parallel path.
func (e *Executor) runSequential(ctx context.Context, subQueries []string, filters Filters, perLimit int, results []subResult) error {
	for i, sq := range subQueries {
		if err := ctx.Err(); err != nil {
			return err
		}
		hits, err := e.search.Search(ctx, sq, filters, perLimit)
		results[i] = subResult{subQuery: sq, hits: hits, err: err}
	}
	return nil
}

// collect merges the per-worker slots into the keyed result map,
// applying the partial-failure policy.
func (e *Executor) collect(results []subResult) (map[string][]Hit, error) {
	out := make(map[string][]Hit, len(results))
	var failures []error

	for _, r := range results {
		if r.err != nil {
			e.logger.Warn("sub-query search failed",
				slog.String("sub_query", r.subQuery),
				slog.String("error", r.err.Error()))
			failures = append(failures, r.err)
			continue
		}
		out[r.subQuery] = r.hits
	}

	if len(failures) == len(results) {
		return nil, symerrors.AllSubQueriesFailed(failures)
	}
	return out, nil
}
