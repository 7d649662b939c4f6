package index

import (
	"context"
	"log/slog"
	"testing"

	"github.com/symscope/symscope/internal/search"
)

func discardTestLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func testDocs() []Document {
	return []Document{
		{
			ID:       DocID("internal/auth/login.go", 10, "Authenticate"),
			Path:     "internal/auth/login.go",
			Name:     "Authenticate",
			Kind:     "function",
			Language: "go",
			Line:     10,
			Content:  "func Authenticate(user, password string) error {",
		},
		{
			ID:       DocID("app/models.py", 5, "Session"),
			Path:     "app/models.py",
			Name:     "Session",
			Kind:     "class",
			Language: "python",
			Line:     5,
			Content:  "class Session(Base):",
		},
		{
			ID:       DocID("internal/db/migrate.go", 22, "Migrate"),
			Path:     "internal/db/migrate.go",
			Name:     "Migrate",
			Kind:     "function",
			Language: "go",
			Line:     22,
			Content:  "func Migrate(ctx context.Context, db *sql.DB) error {",
		},
	}
}

func TestIndexAddAndSearch(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Add(testDocs()); err != nil {
		t.Fatalf("Add: %v", err)
	}

	count, err := ix.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}
	if count != 3 {
		t.Errorf("DocCount = %d, want 3", count)
	}

	hits, err := ix.Search(context.Background(), "authenticate", search.Filters{}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least one hit for name match")
	}

	doc, ok := hits[0].Payload.(Document)
	if !ok {
		t.Fatalf("payload type = %T, want Document", hits[0].Payload)
	}
	if doc.Name != "Authenticate" {
		t.Errorf("top hit name = %s, want Authenticate", doc.Name)
	}
	if doc.Path != "internal/auth/login.go" || doc.Line != 10 {
		t.Errorf("payload fields not round-tripped: %+v", doc)
	}
	if hits[0].Score <= 0 {
		t.Errorf("score = %g, want > 0", hits[0].Score)
	}
}

func TestIndexSearchFilters(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Add(testDocs()); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tests := []struct {
		name    string
		query   string
		filters search.Filters
		wantIDs map[string]bool
	}{
		{
			name:    "language filter",
			query:   "session",
			filters: search.Filters{Language: "python"},
			wantIDs: map[string]bool{DocID("app/models.py", 5, "Session"): true},
		},
		{
			name:    "kind filter excludes classes",
			query:   "session",
			filters: search.Filters{Kind: "function"},
			wantIDs: map[string]bool{},
		},
		{
			name:    "path prefix filter",
			query:   "migrate",
			filters: search.Filters{PathPrefixes: []string{"internal/db/"}},
			wantIDs: map[string]bool{DocID("internal/db/migrate.go", 22, "Migrate"): true},
		},
		{
			name:    "path prefix excludes other trees",
			query:   "authenticate",
			filters: search.Filters{PathPrefixes: []string{"app/"}},
			wantIDs: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := ix.Search(context.Background(), tt.query, tt.filters, 10)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(hits) != len(tt.wantIDs) {
				t.Fatalf("got %d hits, want %d: %v", len(hits), len(tt.wantIDs), hits)
			}
			for _, h := range hits {
				if !tt.wantIDs[h.ID] {
					t.Errorf("unexpected hit %s", h.ID)
				}
			}
		})
	}
}

func TestIndexSearchEmptyQuery(t *testing.T) {
	ix := newTestIndex(t)

	hits, err := ix.Search(context.Background(), "   ", search.Filters{}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hits != nil {
		t.Errorf("hits = %v, want nil for blank query", hits)
	}
}

func TestIndexClosedOperations(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Second close is a no-op.
	if err := ix.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if err := ix.Add(testDocs()); err == nil {
		t.Error("Add on closed index should fail")
	}
	if _, err := ix.Search(context.Background(), "anything", search.Filters{}, 10); err == nil {
		t.Error("Search on closed index should fail")
	}
}
