package index

import (
	"bufio"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	symerrors "github.com/symscope/symscope/internal/errors"
)

// skipDirs are directory names never descended into during a scan.
var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	".symscope":    {},
	"dist":         {},
	"__pycache__":  {},
}

// languageByExt maps file extensions to the language label stored in
// the index. Unknown extensions are skipped.
var languageByExt = map[string]string{
	".go":  "go",
	".py":  "python",
	".js":  "javascript",
	".jsx": "javascript",
	".ts":  "typescript",
	".tsx": "typescript",
}

// symbolPattern extracts one symbol kind from a source line.
type symbolPattern struct {
	kind string
	re   *regexp.Regexp
}

// symbolPatterns holds the per-language definition-line patterns. The
// first capture group is the symbol name. This is a deliberately
// shallow line scanner, not a parser; it misses multi-line and exotic
// declaration forms, which is acceptable for keyword search.
var symbolPatterns = map[string][]symbolPattern{
	"go": {
		{"method", regexp.MustCompile(`^func\s+\([^)]*\)\s+([A-Za-z_]\w*)`)},
		{"function", regexp.MustCompile(`^func\s+([A-Za-z_]\w*)`)},
		{"type", regexp.MustCompile(`^type\s+([A-Za-z_]\w*)`)},
	},
	"python": {
		{"function", regexp.MustCompile(`^\s*def\s+([A-Za-z_]\w*)`)},
		{"class", regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)`)},
	},
	"javascript": {
		{"function", regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+([A-Za-z_$]\w*)`)},
		{"class", regexp.MustCompile(`^\s*(?:export\s+)?class\s+([A-Za-z_$]\w*)`)},
		{"function", regexp.MustCompile(`^\s*(?:export\s+)?const\s+([A-Za-z_$]\w*)\s*=\s*(?:async\s+)?\(`)},
	},
}

func init() {
	// TypeScript shares the JavaScript patterns.
	symbolPatterns["typescript"] = symbolPatterns["javascript"]
}

// ScanStats summarizes one indexing run.
type ScanStats struct {
	Files   int
	Symbols int
	Skipped int
}

// Scan walks root, extracts symbols from recognized source files and
// indexes them in per-file batches. Directories named in exclude are
// skipped in addition to the built-in skip list. Unreadable files are
// skipped and counted, not fatal.
func (ix *Index) Scan(ctx context.Context, root string, exclude []string, logger *slog.Logger) (ScanStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	skip := make(map[string]struct{}, len(skipDirs)+len(exclude))
	for name := range skipDirs {
		skip[name] = struct{}{}
	}
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	var stats ScanStats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if _, skipDir := skip[d.Name()]; skipDir {
				return filepath.SkipDir
			}
			return nil
		}

		lang, ok := languageByExt[filepath.Ext(path)]
		if !ok {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		docs, scanErr := scanFile(path, rel, lang)
		if scanErr != nil {
			logger.Warn("skipping unreadable file",
				slog.String("path", rel),
				slog.String("error", scanErr.Error()))
			stats.Skipped++
			return nil
		}

		if len(docs) > 0 {
			if addErr := ix.Add(docs); addErr != nil {
				return addErr
			}
			stats.Symbols += len(docs)
		}
		stats.Files++
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		return stats, symerrors.New(symerrors.ErrCodeIndexFailed, "scan source tree", err).
			WithDetail("root", root)
	}

	logger.Info("scan complete",
		slog.String("root", root),
		slog.Int("files", stats.Files),
		slog.Int("symbols", stats.Symbols),
		slog.Int("skipped", stats.Skipped))

	return stats, nil
}

// scanFile extracts symbol documents from a single source file.
func scanFile(path, rel, lang string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	patterns := symbolPatterns[lang]

	var docs []Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		for _, p := range patterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := m[1]
			docs = append(docs, Document{
				ID:       DocID(rel, lineNo, name),
				Path:     rel,
				Name:     name,
				Kind:     p.kind,
				Language: lang,
				Line:     lineNo,
				Content:  strings.TrimSpace(line),
			})
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
