package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/recipekb/internal/normalize"
	"github.com/roach88/recipekb/internal/recipe"
)

// DefaultWorkers bounds concurrent file decoding when Options.Workers is unset.
const DefaultWorkers = 8

// Options configures LoadDir.
type Options struct {
	// Workers bounds the number of files decoded concurrently.
	Workers int

	// Normalizer converts decoded units. Defaults to normalize.New(normalize.Options{}).
	Normalizer *normalize.Normalizer

	// Logger receives one warning per skipped unit. Defaults to slog.Default().
	Logger *slog.Logger
}

// Result holds the outcome of loading a directory.
type Result struct {
	SourceDir string
	Files     int
	Records   []recipe.Record
	Report    normalize.Report
}

// FindUnits returns the recipe unit files directly inside dir, sorted by name.
func FindUnits(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("recipes directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("recipes directory: not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read recipes directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if Supported(filepath.Ext(e.Name())) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// SourceID returns the source identifier of a unit: its file name without
// extension.
func SourceID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadDir decodes and normalizes every recipe unit in dir.
//
// Per-unit failures end up in Result.Report. The returned error is non-nil
// only when the directory cannot be listed or ctx is cancelled.
func LoadDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	start := time.Now()

	n := opts.Normalizer
	if n == nil {
		n = normalize.New(normalize.Options{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	paths, err := FindUnits(dir)
	if err != nil {
		return nil, err
	}

	units, err := decodeAll(ctx, paths, workers)
	if err != nil {
		return nil, err
	}

	records, report := n.Run(units)

	for _, skip := range report.Skips {
		logger.Warn("recipe unit skipped",
			"source", skip.Source,
			"reason", string(skip.Reason),
			"detail", skip.Detail,
		)
		ingestSkips.WithLabelValues(string(skip.Reason)).Inc()
	}
	ingestUnits.WithLabelValues("ingested").Add(float64(report.Processed))
	ingestUnits.WithLabelValues("skipped").Add(float64(len(report.Skips)))
	ingestDuration.Observe(time.Since(start).Seconds())

	logger.Info("recipe directory loaded",
		"dir", dir,
		"files", len(paths),
		"processed", report.Processed,
		"skipped", len(report.Skips),
	)

	return &Result{
		SourceDir: dir,
		Files:     len(paths),
		Records:   records,
		Report:    report,
	}, nil
}

// decodeAll decodes paths on a bounded pool. units[i] always corresponds to
// paths[i], whatever order the workers finish in.
func decodeAll(ctx context.Context, paths []string, workers int) ([]normalize.Unit, error) {
	units := make([]normalize.Unit, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := DecodeFile(path)
			units[i] = normalize.Unit{Source: SourceID(path), Data: data, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decode recipe units: %w", err)
	}
	return units, nil
}
