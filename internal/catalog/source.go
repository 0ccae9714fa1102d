package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/conorfennell/woordquiz/internal/domain"
	"github.com/conorfennell/woordquiz/internal/gitsource"
)

var wordListExtensions = []string{".txt", ".words"}

// syncRepo is replaced in tests.
var syncRepo = gitsource.Sync

// Load reads every source concurrently and merges the entries in source order,
// dropping duplicates. A source is a word-list file, a directory of word lists
// or a git URL that is cloned or pulled under reposDir. Malformed blocks are
// logged and skipped; a source that cannot be read fails the whole load.
func Load(ctx context.Context, sources []string, reposDir string) (*Catalog, error) {
	results := make([][]domain.VocabularyEntry, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			entries, err := loadSource(ctx, source, reposDir)
			if err != nil {
				return fmt.Errorf("failed to load source %s: %w", source, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := Merge(results...)
	if c.Len() == 0 {
		return nil, ErrNoEntries
	}
	slog.Info("Word catalog loaded", "sources", len(sources), "entries", c.Len())
	return c, nil
}

func loadSource(ctx context.Context, source, reposDir string) ([]domain.VocabularyEntry, error) {
	path := source
	if gitsource.IsURL(source) {
		localPath, err := gitsource.LocalPath(reposDir, source)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(localPath), os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := syncRepo(ctx, source, localPath); err != nil {
			return nil, err
		}
		path = localPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return parseLogged(path)
	}
	return walkDir(ctx, path)
}

func walkDir(ctx context.Context, root string) ([]domain.VocabularyEntry, error) {
	var entries []domain.VocabularyEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !isWordList(d.Name()) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fileEntries, err := parseLogged(path)
		if err != nil {
			return err
		}
		entries = append(entries, fileEntries...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// parseLogged parses one file. A *ParseError is only logged.
func parseLogged(path string) ([]domain.VocabularyEntry, error) {
	entries, err := ParseFile(path)
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		slog.Warn("Skipping invalid word list entries", "path", path, "lines", parseErr.InvalidLines)
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

func isWordList(name string) bool {
	return slices.Contains(wordListExtensions, strings.ToLower(filepath.Ext(name)))
}
