package search

import (
	"context"
	"reflect"
	"testing"
)

// staticIndex is a deterministic fake index keyed by query.
func staticIndex(byQuery map[string][]Hit) SearchFunc {
	return func(_ context.Context, query string, _ Filters, _ int) ([]Hit, error) {
		return byQuery[query], nil
	}
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(nil, DefaultConfig(), discardLogger()); err == nil {
		t.Error("expected error for nil index")
	}

	bad := DefaultConfig()
	bad.WorkerLimit = 0
	if _, err := NewEngine(staticIndex(nil), bad, discardLogger()); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	e, err := NewEngine(staticIndex(nil), DefaultConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	for _, q := range []string{"", "   "} {
		results, err := e.Search(context.Background(), q, Filters{}, 10, true)
		if err != nil {
			t.Errorf("Search(%q) error: %v", q, err)
		}
		if results != nil {
			t.Errorf("Search(%q) = %v, want nil", q, results)
		}
	}
}

func TestSearchSimplePassthrough(t *testing.T) {
	// A simple query bypasses fusion: raw index scores come back untouched.
	e, err := NewEngine(staticIndex(map[string][]Hit{
		"read config": {
			{ID: "a", Score: 2.71},
			{ID: "b", Score: 1.41},
		},
	}), DefaultConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	results, err := e.Search(context.Background(), "read config", Filters{}, 10, true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	expected := []RankedResult{
		{ID: "a", Score: 2.71},
		{ID: "b", Score: 1.41},
	}
	if !reflect.DeepEqual(results, expected) {
		t.Errorf("results = %v, want %v", results, expected)
	}
}

func TestSearchCompoundQueryFuses(t *testing.T) {
	e, err := NewEngine(staticIndex(map[string][]Hit{
		"auth handling": {
			{ID: "shared", Score: 0.6},
			{ID: "auth_only", Score: 0.5},
		},
		"token parsing": {
			{ID: "shared", Score: 0.9},
		},
	}), DefaultConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	results, err := e.Search(context.Background(), "auth handling and token parsing", Filters{}, 10, true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "shared" {
		t.Errorf("top result = %s, want shared (matched both sub-queries)", results[0].ID)
	}
}

func TestSearchDeterministicAcrossRuns(t *testing.T) {
	byQuery := map[string][]Hit{
		"auth handling": {
			{ID: "a", Score: 0.7},
			{ID: "b", Score: 0.7},
		},
		"token parsing": {
			{ID: "c", Score: 0.7},
			{ID: "a", Score: 0.2},
		},
	}

	e, err := NewEngine(staticIndex(byQuery), DefaultConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	query := "auth handling and token parsing"
	first, err := e.Search(context.Background(), query, Filters{}, 10, true)
	if err != nil {
		t.Fatalf("first Search: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := e.Search(context.Background(), query, Filters{}, 10, true)
		if err != nil {
			t.Fatalf("repeat Search: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
}

func TestSearchLimitClamped(t *testing.T) {
	var gotLimit int
	fake := SearchFunc(func(_ context.Context, _ string, _ Filters, limit int) ([]Hit, error) {
		gotLimit = limit
		return nil, nil
	})

	e, err := NewEngine(fake, DefaultConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	if _, err := e.Search(context.Background(), "parser", Filters{}, 0, true); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotLimit != DefaultConfig().DefaultLimit {
		t.Errorf("zero limit passed %d to index, want default %d", gotLimit, DefaultConfig().DefaultLimit)
	}

	if _, err := e.Search(context.Background(), "parser", Filters{}, 5000, true); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotLimit != DefaultConfig().MaxLimit {
		t.Errorf("oversized limit passed %d to index, want max %d", gotLimit, DefaultConfig().MaxLimit)
	}
}

func TestDecomposeCached(t *testing.T) {
	e, err := NewEngine(staticIndex(nil), DefaultConfig(), discardLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	first := e.Decompose("auth handling and token parsing")
	second := e.Decompose("Auth Handling AND Token Parsing")

	// The cache key is case-insensitive; the second call returns the
	// cached decomposition of the first.
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached decomposition differs: %v vs %v", first, second)
	}
}
