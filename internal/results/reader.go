package results

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Format tags raw result content with the parser family it belongs to.
type Format string

// FormatJUnit is the only recognized format. Files with any other extension
// are skipped rather than guessed at.
const FormatJUnit Format = "junit"

// RawResult is one results file's content tagged with its detected format.
type RawResult struct {
	Format  Format
	Path    string
	Content []byte
}

// readConcurrency bounds parallel file reads when aggregating a directory.
const readConcurrency = 4

// Read loads raw results from path, which must already have passed
// ValidatePath. A regular file yields at most one raw result; a directory
// yields one per recognized file directly inside it (no recursion), in name
// order. An empty slice means no recognizable results were found, which is a
// warning condition for the caller, not an error.
func Read(ctx context.Context, path string) ([]RawResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat results path: %w", err)
	}

	if info.Mode().IsRegular() {
		if detectFormat(path) != FormatJUnit {
			return nil, nil
		}
		raw, err := readFile(path)
		if err != nil {
			return nil, err
		}
		return []RawResult{raw}, nil
	}

	return readDir(ctx, path)
}

// readDir aggregates every recognized file directly inside dir, reading them
// with bounded parallelism.
func readDir(ctx context.Context, dir string) ([]RawResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list results directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if detectFormat(p) == FormatJUnit {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, nil
	}

	raws := make([]RawResult, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			raw, err := readFile(p)
			if err != nil {
				return err
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raws, nil
}

func readFile(path string) (RawResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return RawResult{}, fmt.Errorf("read results file %s: %w", path, err)
	}
	return RawResult{Format: FormatJUnit, Path: path, Content: content}, nil
}

func detectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return FormatJUnit
	}
	return ""
}
