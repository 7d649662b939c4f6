package mcp

// SearchInput defines the input schema for the search tool.
type SearchInput struct {
	Query    string   `json:"query" jsonschema:"the search query to execute"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
	Language string   `json:"language,omitempty" jsonschema:"filter by programming language, e.g. go, python"`
	Kind     string   `json:"kind,omitempty" jsonschema:"filter by symbol kind: function, class, type, method"`
	Scope    []string `json:"scope,omitempty" jsonschema:"filter by path prefixes (OR logic)"`
}

// SearchOutput defines the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results" jsonschema:"ranked search results"`
}

// SearchResultOutput is a single search result.
type SearchResultOutput struct {
	ID       string  `json:"id" jsonschema:"unique symbol identifier"`
	Path     string  `json:"path,omitempty" jsonschema:"file path relative to project root"`
	Name     string  `json:"name,omitempty" jsonschema:"symbol name"`
	Kind     string  `json:"kind,omitempty" jsonschema:"symbol kind"`
	Language string  `json:"language,omitempty" jsonschema:"source language"`
	Line     int     `json:"line,omitempty" jsonschema:"1-based definition line"`
	Content  string  `json:"content,omitempty" jsonschema:"matched definition line"`
	Score    float64 `json:"score" jsonschema:"fused relevance score"`
}

// ExplainInput defines the input schema for the explain_query tool.
type ExplainInput struct {
	Query string `json:"query" jsonschema:"the query to explain"`
}

// ExplainOutput defines the output schema for the explain_query tool.
type ExplainOutput struct {
	Strategy   string   `json:"strategy" jsonschema:"splitting strategy that applied, or simple"`
	Confidence float64  `json:"confidence" jsonschema:"fixed strategy confidence between 0 and 1"`
	SubQueries []string `json:"sub_queries" jsonschema:"the sub-queries the query decomposes into"`
}

// IndexStatusInput defines the input schema for the index_status tool (no parameters).
type IndexStatusInput struct{}

// IndexStatusOutput defines the output schema for the index_status tool.
type IndexStatusOutput struct {
	RootPath    string `json:"root_path" jsonschema:"project root the index covers"`
	IndexPath   string `json:"index_path" jsonschema:"on-disk index location"`
	SymbolCount uint64 `json:"symbol_count" jsonschema:"number of indexed symbols"`
	Ready       bool   `json:"ready" jsonschema:"true when the index contains symbols"`
}
