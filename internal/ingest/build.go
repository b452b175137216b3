package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/recipekb/internal/store"
)

// RunIDGenerator produces build run identifiers.
// Implemented by UUIDv7Generator (production) and the testutil generators.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// BuildOptions configures Build.
type BuildOptions struct {
	Options

	// RunIDs names the build. Defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	// Now stamps the build. Defaults to time.Now.
	Now func() time.Time
}

// BuildResult is the outcome of a successful Build.
type BuildResult struct {
	Info   store.BuildInfo
	Result *Result
}

// Build loads every unit in dir and replaces the contents of s with the
// resulting records and skip log. A load or store failure leaves s as it was.
func Build(ctx context.Context, s *store.Store, dir string, opts BuildOptions) (*BuildResult, error) {
	if opts.RunIDs == nil {
		opts.RunIDs = UUIDv7Generator{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info := store.BuildInfo{
		RunID:   opts.RunIDs.Generate(),
		BuiltAt: opts.Now().UTC(),
	}
	logger.Info("build starting", "run_id", info.RunID, "dir", dir)

	res, err := LoadDir(ctx, dir, opts.Options)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", info.RunID, err)
	}
	info.SourceDir = res.SourceDir
	info.Processed = len(res.Records)
	info.Skipped = len(res.Report.Skips)

	if err := s.Rebuild(ctx, res.Records, res.Report.Skips, info); err != nil {
		return nil, fmt.Errorf("build %s: %w", info.RunID, err)
	}

	logger.Info("build complete",
		"run_id", info.RunID,
		"files", res.Files,
		"processed", info.Processed,
		"skipped", info.Skipped)

	return &BuildResult{Info: info, Result: res}, nil
}
