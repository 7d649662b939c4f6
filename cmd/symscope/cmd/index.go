package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/symscope/symscope/internal/config"
	"github.com/symscope/symscope/internal/index"
	"github.com/symscope/symscope/internal/output"
)

// newIndexCmd creates the index command.
func newIndexCmd() *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Build or update the symbol index",
		Long: `Scan the project for source files, extract symbols and index them.

The index is stored under .symscope/ in the project root. Without a
path argument the project root is detected from the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := "."
			if len(args) > 0 {
				start = args[0]
			}
			return runIndex(cmd, start, rebuild)
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Delete the existing index and rebuild from scratch")
	return cmd
}

func runIndex(cmd *cobra.Command, start string, rebuild bool) error {
	out := output.New(cmd.OutOrStdout())

	root := config.FindProjectRoot(start)
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	indexPath := config.IndexPath(root)
	if rebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return err
		}
	}

	ix, err := index.New(indexPath)
	if err != nil {
		return err
	}
	defer ix.Close()

	out.Statusf("", "Indexing %s", root)
	begin := time.Now()

	stats, err := ix.Scan(cmd.Context(), root, cfg.Index.Exclude, slog.Default())
	if err != nil {
		return err
	}

	out.Successf("Indexed %d symbols from %d files in %s",
		stats.Symbols, stats.Files, time.Since(begin).Round(time.Millisecond))
	if stats.Skipped > 0 {
		out.Warningf("Skipped %d unreadable files", stats.Skipped)
	}
	return nil
}
