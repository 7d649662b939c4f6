package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/symscope/symscope/internal/config"
	"github.com/symscope/symscope/internal/index"
	"github.com/symscope/symscope/internal/mcp"
	"github.com/symscope/symscope/internal/search"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Serve the symbol index to AI clients over the Model Context Protocol.

Stdout carries JSON-RPC exclusively; all diagnostics go to the log file.
Run 'symscope index' first to build the index.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	root := config.FindProjectRoot(".")
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	ix, err := index.Open(config.IndexPath(root))
	if err != nil {
		return err
	}
	defer ix.Close()

	engine, err := search.NewEngine(ix, cfg.SearchOptions(), slog.Default())
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(engine, ix, root, slog.Default())
	if err != nil {
		return err
	}
	return srv.Serve(cmd.Context())
}
