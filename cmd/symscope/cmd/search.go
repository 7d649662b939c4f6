package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/symscope/symscope/internal/config"
	symerrors "github.com/symscope/symscope/internal/errors"
	"github.com/symscope/symscope/internal/index"
	"github.com/symscope/symscope/internal/output"
	"github.com/symscope/symscope/internal/search"
)

// newSearchCmd creates the search command.
func newSearchCmd() *cobra.Command {
	var (
		limit      int
		language   string
		kind       string
		format     string
		sequential bool
		explain    bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed symbols",
		Long: `Search the symbol index.

Compound queries are decomposed into sub-queries, searched in parallel
and fused into one ranked list. Use --explain to see how a query is
decomposed, and --sequential to disable the parallel fan-out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], searchOpts{
				limit:      limit,
				language:   language,
				kind:       kind,
				format:     format,
				sequential: sequential,
				explain:    explain,
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Filter by language (go, python, javascript, typescript)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Filter by symbol kind (function, class, type, method)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "Run sub-query searches one at a time")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the query decomposition before the results")
	return cmd
}

type searchOpts struct {
	limit      int
	language   string
	kind       string
	format     string
	sequential bool
	explain    bool
}

// jsonResult is the --format json shape of one result.
type jsonResult struct {
	ID       string  `json:"id"`
	Path     string  `json:"path,omitempty"`
	Name     string  `json:"name,omitempty"`
	Kind     string  `json:"kind,omitempty"`
	Language string  `json:"language,omitempty"`
	Line     int     `json:"line,omitempty"`
	Score    float64 `json:"score"`
}

func runSearch(cmd *cobra.Command, query string, opts searchOpts) error {
	if opts.format != "text" && opts.format != "json" {
		return symerrors.ValidationError(fmt.Sprintf("unknown format %q (want text or json)", opts.format), nil)
	}

	out := output.New(cmd.OutOrStdout())

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

	if opts.explain {
		d := engine.Decompose(query)
		out.Statusf("", "Strategy: %s (confidence %.2f)", d.Strategy, d.Confidence)
		for i, sq := range d.SubQueries {
			out.Statusf("", "  %d. %s", i+1, sq)
		}
		out.Newline()
	}

	filters := search.Filters{Language: opts.language, Kind: opts.kind}
	parallel := cfg.Search.Parallel && !opts.sequential

	results, err := engine.Search(cmd.Context(), query, filters, opts.limit, parallel)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		return printJSON(cmd, results)
	}

	if len(results) == 0 {
		out.Status("", "No results.")
		return nil
	}
	for i, r := range results {
		if doc, ok := r.Payload.(index.Document); ok {
			out.Statusf("", "%2d. %s:%d  %s (%s, %s)  score=%.3f",
				i+1, doc.Path, doc.Line, doc.Name, doc.Kind, doc.Language, r.Score)
		} else {
			out.Statusf("", "%2d. %s  score=%.3f", i+1, r.ID, r.Score)
		}
	}
	return nil
}

func printJSON(cmd *cobra.Command, results []search.RankedResult) error {
	items := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{ID: r.ID, Score: r.Score}
		if doc, ok := r.Payload.(index.Document); ok {
			jr.Path = doc.Path
			jr.Name = doc.Name
			jr.Kind = doc.Kind
			jr.Language = doc.Language
			jr.Line = doc.Line
		}
		items = append(items, jr)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
