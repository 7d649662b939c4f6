package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	symerrors "github.com/symscope/symscope/internal/errors"
	"github.com/symscope/symscope/internal/search"
)

// Index wraps a Bleve full-text index of symbol documents and adapts
// it to the search core's single-query primitive.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	closed bool
}

// compile-time interface check
var _ search.Searcher = (*Index)(nil)

// New opens the index at path, creating it if absent. An empty path
// creates an in-memory index, used by tests and one-shot searches.
func New(path string) (*Index, error) {
	m := buildMapping()

	var idx bleve.Index
	var err error
	if path == "" {
		idx, err = bleve.NewMemOnly(m)
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, symerrors.New(symerrors.ErrCodeIndexIO, "create index directory", mkErr)
		}
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, m)
		}
	}
	if err != nil {
		return nil, symerrors.New(symerrors.ErrCodeIndexIO, "open index", err).
			WithDetail("path", path)
	}

	return &Index{index: idx, path: path}, nil
}

// Open opens an existing index at path and fails if it does not exist.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		return nil, symerrors.New(symerrors.ErrCodeIndexNotFound, "index not found", err).
			WithDetail("path", path).
			WithSuggestion("run 'symscope index' first")
	}
	if err != nil {
		return nil, symerrors.New(symerrors.ErrCodeIndexIO, "open index", err).
			WithDetail("path", path)
	}
	return &Index{index: idx, path: path}, nil
}

// buildMapping maps symbol fields: name and content are analyzed text,
// while path, kind and language use the keyword analyzer so filters
// match them exactly.
func buildMapping() *mapping.IndexMappingImpl {
	m := bleve.NewIndexMapping()

	text := bleve.NewTextFieldMapping()

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", text)
	doc.AddFieldMappingsAt("content", text)
	doc.AddFieldMappingsAt("path", exact)
	doc.AddFieldMappingsAt("kind", exact)
	doc.AddFieldMappingsAt("language", exact)
	doc.AddFieldMappingsAt("line", bleve.NewNumericFieldMapping())

	m.DefaultMapping = doc
	return m
}

// Add indexes the documents in one batch.
func (ix *Index) Add(docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return symerrors.InternalError("index is closed", nil)
	}

	batch := ix.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc); err != nil {
			return symerrors.New(symerrors.ErrCodeIndexFailed, "index document", err).
				WithDetail("doc_id", doc.ID)
		}
	}
	if err := ix.index.Batch(batch); err != nil {
		return symerrors.New(symerrors.ErrCodeIndexFailed, "execute index batch", err)
	}
	return nil
}

// Search implements search.Searcher. The query matches symbol names
// (boosted) and content; filters narrow by exact language/kind terms
// and by path prefixes OR-ed together.
func (ix *Index) Search(ctx context.Context, queryStr string, filters search.Filters, limit int) ([]search.Hit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.closed {
		return nil, symerrors.InternalError("index is closed", nil)
	}
	if strings.TrimSpace(queryStr) == "" {
		return nil, nil
	}

	nameQuery := bleve.NewMatchQuery(queryStr)
	nameQuery.SetField("name")
	nameQuery.SetBoost(2.0)

	contentQuery := bleve.NewMatchQuery(queryStr)
	contentQuery.SetField("content")

	var conjuncts []query.Query
	conjuncts = append(conjuncts, bleve.NewDisjunctionQuery(nameQuery, contentQuery))

	if filters.Language != "" {
		tq := bleve.NewTermQuery(strings.ToLower(filters.Language))
		tq.SetField("language")
		conjuncts = append(conjuncts, tq)
	}
	if filters.Kind != "" {
		tq := bleve.NewTermQuery(strings.ToLower(filters.Kind))
		tq.SetField("kind")
		conjuncts = append(conjuncts, tq)
	}
	if len(filters.PathPrefixes) > 0 {
		var prefixes []query.Query
		for _, p := range filters.PathPrefixes {
			pq := bleve.NewPrefixQuery(p)
			pq.SetField("path")
			prefixes = append(prefixes, pq)
		}
		conjuncts = append(conjuncts, bleve.NewDisjunctionQuery(prefixes...))
	}

	req := bleve.NewSearchRequest(bleve.NewConjunctionQuery(conjuncts...))
	req.Size = limit
	req.Fields = []string{"*"}

	result, err := ix.index.SearchInContext(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, symerrors.New(symerrors.ErrCodeSearchFailed, "index search", err)
	}

	hits := make([]search.Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, search.Hit{
			ID:      h.ID,
			Payload: docFromFields(h.ID, h.Fields),
			Score:   h.Score,
		})
	}
	return hits, nil
}

// docFromFields rebuilds a Document from the stored Bleve fields.
func docFromFields(id string, fields map[string]interface{}) Document {
	doc := Document{ID: id}
	if v, ok := fields["path"].(string); ok {
		doc.Path = v
	}
	if v, ok := fields["name"].(string); ok {
		doc.Name = v
	}
	if v, ok := fields["kind"].(string); ok {
		doc.Kind = v
	}
	if v, ok := fields["language"].(string); ok {
		doc.Language = v
	}
	if v, ok := fields["line"].(float64); ok {
		doc.Line = int(v)
	}
	if v, ok := fields["content"].(string); ok {
		doc.Content = v
	}
	return doc
}

// DocCount returns the number of indexed symbols.
func (ix *Index) DocCount() (uint64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.closed {
		return 0, symerrors.InternalError("index is closed", nil)
	}
	return ix.index.DocCount()
}

// Path returns the on-disk location of the index, empty for in-memory.
func (ix *Index) Path() string {
	return ix.path
}

// Close releases the underlying Bleve index. Safe to call twice.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return nil
	}
	ix.closed = true
	return ix.index.Close()
}
