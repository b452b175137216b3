package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/recipekb/internal/normalize"
)

// CountResult is the output of the count command.
type CountResult struct {
	Count int `json:"count"`
}

func (r CountResult) String() string {
	return fmt.Sprintf("%d", r.Count)
}

// InfoResult is the output of the info command.
type InfoResult struct {
	DB        string           `json:"db"`
	Built     bool             `json:"built"`
	RunID     string           `json:"run_id,omitempty"`
	BuiltAt   string           `json:"built_at,omitempty"`
	SourceDir string           `json:"source_dir,omitempty"`
	Records   int              `json:"records"`
	Processed int              `json:"processed"`
	Skipped   int              `json:"skipped"`
	Skips     []normalize.Skip `json:"skips"`
}

func (r InfoResult) String() string {
	if !r.Built {
		return fmt.Sprintf("Store %s has not been built yet.", r.DB)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Store:     %s\n", r.DB)
	fmt.Fprintf(&b, "Run:       %s\n", r.RunID)
	fmt.Fprintf(&b, "Built at:  %s\n", r.BuiltAt)
	fmt.Fprintf(&b, "Source:    %s\n", r.SourceDir)
	fmt.Fprintf(&b, "Recipes:   %d\n", r.Records)
	fmt.Fprintf(&b, "Skipped:   %d", r.Skipped)
	for _, skip := range r.Skips {
		fmt.Fprintf(&b, "\n  %s", skip)
	}
	return b.String()
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "count",
		Short:         "Print the number of stored recipes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(rootOpts, cmd)
		},
	}
}

func runCount(opts *RootOptions, cmd *cobra.Command) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	f := opts.formatter(cmd)

	st, err := opts.openExisting(f)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	n, err := st.Count(commandContext(cmd))
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "count failed", err)
	}
	return f.Success(CountResult{Count: n})
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the last build and its skipped units",
		Long: `Show metadata of the last build: run id, time, source directory,
record count, and every unit that was skipped with its reason.

Examples:
  recipekb info
  recipekb info --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := opts.openExisting(f)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	result := InfoResult{DB: opts.Config.DB, Skips: []normalize.Skip{}}

	build, ok, err := st.LatestBuild(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "failed to read build info", err)
	}
	if !ok {
		return f.Success(result)
	}

	records, err := st.Count(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "count failed", err)
	}
	skips, err := st.Skips(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "failed to read skips", err)
	}

	result.Built = true
	result.RunID = build.RunID
	result.BuiltAt = build.BuiltAt.Format(time.RFC3339)
	result.SourceDir = build.SourceDir
	result.Records = records
	result.Processed = build.Processed
	result.Skipped = build.Skipped
	result.Skips = skips
	return f.Success(result)
}
