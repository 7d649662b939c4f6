// Package mcp exposes the search engine to AI clients over the Model
// Context Protocol.
package mcp

import (
	"context"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	symerrors "github.com/symscope/symscope/internal/errors"
	"github.com/symscope/symscope/internal/index"
	"github.com/symscope/symscope/internal/search"
	"github.com/symscope/symscope/pkg/version"
)

// serverName identifies this implementation to MCP clients.
const serverName = "symscope"

// Server bridges MCP clients and the search engine.
type Server struct {
	mcp    *mcp.Server
	engine *search.Engine
	index  *index.Index
	root   string
	logger *slog.Logger
}

// NewServer creates an MCP server over the engine and index.
// rootPath is reported by index_status for client diagnostics.
func NewServer(engine *search.Engine, ix *index.Index, rootPath string, logger *slog.Logger) (*Server, error) {
	if engine == nil {
		return nil, symerrors.InternalError("mcp server requires a search engine", nil)
	}
	if ix == nil {
		return nil, symerrors.InternalError("mcp server requires an index", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine: engine,
		index:  ix,
		root:   rootPath,
		logger: logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		nil,
	)
	s.registerTools()

	return s, nil
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Search indexed symbols. Compound queries are decomposed into sub-queries, searched in parallel and fused into one ranked list. Supports language, symbol kind and path filters.",
	}, s.mcpSearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "explain_query",
		Description: "Show how a query would be decomposed: the splitting strategy, its confidence and the resulting sub-queries. Runs no search.",
	}, s.mcpExplainHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_status",
		Description: "Report the indexed symbol count and index location. Use before searching to verify the index exists.",
	}, s.mcpIndexStatusHandler)

	s.logger.Debug("MCP tools registered", slog.Int("count", 3))
}

// mcpSearchHandler is the MCP SDK handler for the search tool.
func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, symerrors.New(symerrors.ErrCodeQueryEmpty, "query parameter is required", nil)
	}

	filters := search.Filters{
		Language:     input.Language,
		Kind:         input.Kind,
		PathPrefixes: input.Scope,
	}

	results, err := s.engine.Search(ctx, input.Query, filters, input.Limit, true)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	out := SearchOutput{Results: make([]SearchResultOutput, 0, len(results))}
	for _, r := range results {
		ro := SearchResultOutput{ID: r.ID, Score: r.Score}
		if doc, ok := r.Payload.(index.Document); ok {
			ro.Path = doc.Path
			ro.Name = doc.Name
			ro.Kind = doc.Kind
			ro.Language = doc.Language
			ro.Line = doc.Line
			ro.Content = doc.Content
		}
		out.Results = append(out.Results, ro)
	}
	return nil, out, nil
}

// mcpExplainHandler is the MCP SDK handler for the explain_query tool.
func (s *Server) mcpExplainHandler(_ context.Context, _ *mcp.CallToolRequest, input ExplainInput) (
	*mcp.CallToolResult,
	ExplainOutput,
	error,
) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, ExplainOutput{}, symerrors.New(symerrors.ErrCodeQueryEmpty, "query parameter is required", nil)
	}

	d := s.engine.Decompose(input.Query)
	return nil, ExplainOutput{
		Strategy:   string(d.Strategy),
		Confidence: d.Confidence,
		SubQueries: d.SubQueries,
	}, nil
}

// mcpIndexStatusHandler is the MCP SDK handler for the index_status tool.
func (s *Server) mcpIndexStatusHandler(_ context.Context, _ *mcp.CallToolRequest, _ IndexStatusInput) (
	*mcp.CallToolResult,
	IndexStatusOutput,
	error,
) {
	count, err := s.index.DocCount()
	if err != nil {
		return nil, IndexStatusOutput{}, err
	}

	return nil, IndexStatusOutput{
		RootPath:    s.root,
		IndexPath:   s.index.Path(),
		SymbolCount: count,
		Ready:       count > 0,
	}, nil
}

// Serve runs the server over stdio until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("MCP server starting", slog.String("transport", "stdio"))

	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("MCP server stopped gracefully")
	return nil
}
