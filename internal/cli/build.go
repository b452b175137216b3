package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/recipekb/internal/ingest"
	"github.com/roach88/recipekb/internal/normalize"
	"github.com/roach88/recipekb/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Workers     int
	MetricsFile string
}

// BuildResult is the output of the build command.
type BuildResult struct {
	RunID     string                   `json:"run_id"`
	BuiltAt   string                   `json:"built_at"`
	SourceDir string                   `json:"source_dir"`
	Files     int                      `json:"files"`
	Processed int                      `json:"processed"`
	Skipped   int                      `json:"skipped"`
	Skips     []normalize.Skip         `json:"skips"`
	ByReason  map[normalize.Reason]int `json:"skips_by_reason,omitempty"`
}

// String renders the result for text output.
func (r BuildResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Built %d recipe(s) from %d file(s) in %s (%d skipped)\n", r.Processed, r.Files, r.SourceDir, r.Skipped)
	fmt.Fprintf(&b, "Run: %s at %s", r.RunID, r.BuiltAt)
	for _, skip := range r.Skips {
		fmt.Fprintf(&b, "\n  skipped %s", skip)
	}
	return b.String()
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <recipes-dir>",
		Short: "Rebuild the recipe store from a directory",
		Long: `Rebuild the recipe store from a directory of recipe descriptions.

Every .json, .yaml, .yml and .cue file directly inside the directory is one
recipe. Units that cannot be parsed, have no result or no ingredients are
skipped and reported; they never stop the build. The previous store contents
are replaced atomically: a failed build leaves them untouched.

Examples:
  recipekb build ./recipes
  recipekb build --db /tmp/recipes.db --workers 4 ./recipes
  recipekb build ./recipes --metrics-file /var/lib/node_exporter/recipekb.prom`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "files decoded concurrently (default from config: 8)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")

	return cmd
}

func runBuild(opts *BuildOptions, dir string, cmd *cobra.Command) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	f := opts.formatter(cmd)
	logger := opts.Logger

	workers := opts.Workers
	if workers <= 0 {
		workers = opts.Config.Workers
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory: %s", dir)
		}
		return f.Fail(ExitCommandError, ErrCodeNotFound, "recipes directory not usable", err)
	}

	logger.Debug("opening database", "path", opts.Config.DB)
	st, err := store.Open(opts.Config.DB)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "failed to open database", err)
	}
	defer opts.closeStore(st)

	res, err := ingest.Build(commandContext(cmd), st, dir, ingest.BuildOptions{
		Options: ingest.Options{
			Workers:    workers,
			Normalizer: normalize.New(normalize.Options{Namespace: opts.Config.Namespace}),
			Logger:     logger,
		},
		RunIDs: opts.RunIDs,
		Now:    opts.Now,
	})
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return f.Fail(ExitFailure, ErrCodeStore, "recipe store unavailable", err)
		}
		return f.Fail(ExitFailure, ErrCodeBuild, "build failed", err)
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, prometheus.DefaultGatherer); err != nil {
			return f.Fail(ExitFailure, ErrCodeWriteFailed, "failed to write metrics file", err)
		}
		logger.Debug("metrics written", "path", opts.MetricsFile)
	}

	return f.Success(BuildResult{
		RunID:     res.Info.RunID,
		BuiltAt:   res.Info.BuiltAt.Format(time.RFC3339),
		SourceDir: res.Info.SourceDir,
		Files:     res.Result.Files,
		Processed: res.Info.Processed,
		Skipped:   res.Info.Skipped,
		Skips:     res.Result.Report.Skips,
		ByReason:  res.Result.Report.CountByReason(),
	})
}
