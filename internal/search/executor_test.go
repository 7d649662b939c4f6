package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	symerrors "github.com/symscope/symscope/internal/errors"
)

// discardLogger silences warnings during failure-path tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestExecuteReturnsHitsPerSubQuery(t *testing.T) {
	fake := SearchFunc(func(_ context.Context, query string, _ Filters, _ int) ([]Hit, error) {
		return []Hit{{ID: "hit-" + query, Score: 1.0}}, nil
	})

	e := NewExecutor(fake, DefaultConfig(), discardLogger())
	got, err := e.Execute(context.Background(), []string{"alpha", "beta", "gamma"}, Filters{}, 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sub-query result sets, want 3", len(got))
	}
	for _, sq := range []string{"alpha", "beta", "gamma"} {
		hits := got[sq]
		if len(hits) != 1 || hits[0].ID != "hit-"+sq {
			t.Errorf("results for %q = %v, want one hit with ID %q", sq, hits, "hit-"+sq)
		}
	}
}

func TestExecutePartialFailureTolerated(t *testing.T) {
	fake := SearchFunc(func(_ context.Context, query string, _ Filters, _ int) ([]Hit, error) {
		if query == "beta" {
			return nil, errors.New("index unavailable")
		}
		return []Hit{{ID: "hit-" + query, Score: 1.0}}, nil
	})

	e := NewExecutor(fake, DefaultConfig(), discardLogger())
	got, err := e.Execute(context.Background(), []string{"alpha", "beta", "gamma"}, Filters{}, 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d result sets, want 2", len(got))
	}
	if _, ok := got["beta"]; ok {
		t.Error("failed sub-query should not appear in results")
	}
}

func TestExecuteAllFailed(t *testing.T) {
	fake := SearchFunc(func(_ context.Context, query string, _ Filters, _ int) ([]Hit, error) {
		return nil, fmt.Errorf("broken: %s", query)
	})

	e := NewExecutor(fake, DefaultConfig(), discardLogger())
	_, err := e.Execute(context.Background(), []string{"alpha", "beta"}, Filters{}, 10, true)
	if err == nil {
		t.Fatal("expected error when every sub-query fails")
	}
	if code := symerrors.GetCode(err); code != symerrors.ErrCodeAllSubQueriesFail {
		t.Errorf("error code = %s, want %s", code, symerrors.ErrCodeAllSubQueriesFail)
	}
}

func TestExecuteWorkerLimit(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	fake := SearchFunc(func(_ context.Context, query string, _ Filters, _ int) ([]Hit, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return []Hit{{ID: query, Score: 1.0}}, nil
	})

	cfg := DefaultConfig()
	cfg.WorkerLimit = 2

	e := NewExecutor(fake, cfg, discardLogger())
	subQueries := []string{"one", "two", "three", "four", "five", "six"}
	if _, err := e.Execute(context.Background(), subQueries, Filters{}, 10, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if maxInFlight > cfg.WorkerLimit {
		t.Errorf("max in-flight searches = %d, want <= %d", maxInFlight, cfg.WorkerLimit)
	}
}

func TestExecuteOverFetch(t *testing.T) {
	var mu sync.Mutex
	var limits []int

	fake := SearchFunc(func(_ context.Context, query string, _ Filters, limit int) ([]Hit, error) {
		mu.Lock()
		limits = append(limits, limit)
		mu.Unlock()
		return nil, nil
	})

	cfg := DefaultConfig()
	cfg.OverFetchFactor = 3

	e := NewExecutor(fake, cfg, discardLogger())
	if _, err := e.Execute(context.Background(), []string{"alpha", "beta"}, Filters{}, 5, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, l := range limits {
		if l != 15 {
			t.Errorf("per-sub-query limit = %d, want 15", l)
		}
	}
}

func TestExecuteSequentialOrder(t *testing.T) {
	var order []string

	fake := SearchFunc(func(_ context.Context, query string, _ Filters, _ int) ([]Hit, error) {
		order = append(order, query)
		return []Hit{{ID: query, Score: 1.0}}, nil
	})

	e := NewExecutor(fake, DefaultConfig(), discardLogger())
	subQueries := []string{"alpha", "beta", "gamma"}
	if _, err := e.Execute(context.Background(), subQueries, Filters{}, 10, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(order, subQueries) {
		t.Errorf("sequential order = %v, want %v", order, subQueries)
	}
}

func TestExecuteSingleSubQueryShortCircuit(t *testing.T) {
	calls := 0
	fake := SearchFunc(func(_ context.Context, query string, _ Filters, limit int) ([]Hit, error) {
		calls++
		if limit != 20 {
			t.Errorf("limit = %d, want 20", limit)
		}
		return []Hit{{ID: "only", Score: 0.5}}, nil
	})

	e := NewExecutor(fake, DefaultConfig(), discardLogger())
	got, err := e.Execute(context.Background(), []string{"solo"}, Filters{}, 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("search calls = %d, want 1", calls)
	}
	if len(got["solo"]) != 1 {
		t.Errorf("results = %v, want one hit under key %q", got, "solo")
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	fake := SearchFunc(func(ctx context.Context, _ string, _ Filters, _ int) ([]Hit, error) {
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExecutor(fake, DefaultConfig(), discardLogger())
	_, err := e.Execute(ctx, []string{"alpha", "beta"}, Filters{}, 10, true)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
