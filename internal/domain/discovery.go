// Package domain implements the check pipeline behind the jamcheck CLI.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"golang.org/x/sync/errgroup"

	"jamcheck.dev/pkg/jamcheck/internal/adapter"
	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// hashWorkers bounds the number of concurrent file-hash operations.
const hashWorkers = 4

// Discovery locates the source files of the package under check. The file
// set is computed fresh on every call; nothing is cached between runs.
type Discovery interface {
	// Sources returns the files under root/packageDir whose base name
	// matches pattern and whose root-relative path matches none of the
	// exclude expressions. The result is sorted by path.
	Sources(ctx context.Context, root m.Path, packageDir, pattern string, exclude []string) ([]m.File, error)
}

type discovery struct {
	fs adapter.RepoFSAdapter
}

// NewDiscovery constructs a Discovery backed by the provided filesystem
// adapter.
func NewDiscovery(fs adapter.RepoFSAdapter) Discovery {
	return &discovery{fs: fs}
}

func (d *discovery) Sources(ctx context.Context, root m.Path, packageDir, pattern string, exclude []string) ([]m.File, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	packageRoot := d.fs.JoinPath(string(root), packageDir)

	if _, err := d.fs.FileInfo(packageRoot); err != nil {
		return nil, fmt.Errorf("package dir %s: %w", packageRoot, err)
	}

	paths, err := d.collectPaths(ctx, root, packageRoot, pattern, excludes)
	if err != nil {
		return nil, err
	}

	files, err := d.hashAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

func (d *discovery) collectPaths(ctx context.Context, root, packageRoot m.Path, pattern string, excludes []*regexp.Regexp) ([]m.Path, error) {
	var paths []m.Path

	walkErr := d.fs.Walk(packageRoot, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if info.IsDir() {
			return nil
		}

		matched, matchErr := filepath.Match(pattern, filepath.Base(path))
		if matchErr != nil {
			return fmt.Errorf("source pattern %q: %w", pattern, matchErr)
		}

		if !matched {
			return nil
		}

		rel, relErr := d.fs.RelPath(root, m.Path(path))
		if relErr != nil {
			rel = m.Path(path)
		}

		if matchesAny(excludes, string(rel)) {
			slog.Debug("excluded source file", "path", rel)
			return nil
		}

		paths = append(paths, m.Path(path))

		return nil
	})

	if walkErr != nil {
		return nil, fmt.Errorf("scan package dir %s: %w", packageRoot, walkErr)
	}

	return paths, nil
}

// hashAll fingerprints the discovered files with a bounded worker pool.
func (d *discovery) hashAll(ctx context.Context, paths []m.Path) ([]m.File, error) {
	files := make([]m.File, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(hashWorkers)

	for i, path := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			hash, err := d.fs.HashFile(path)
			if err != nil {
				return fmt.Errorf("hash %s: %w", path, err)
			}

			files[i] = m.File{Path: path, Hash: hash}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func matchesAny(excludes []*regexp.Regexp, path string) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
