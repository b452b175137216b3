package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/recipekb/internal/config"
	"github.com/roach88/recipekb/internal/ingest"
	"github.com/roach88/recipekb/internal/logging"
	"github.com/roach88/recipekb/internal/query"
	"github.com/roach88/recipekb/internal/store"
)

// RootOptions holds global flags for all commands and the state resolved from
// them before a command runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DB         string
	ConfigPath string

	// Resolved by prepare.
	Config *config.Config
	Logger *slog.Logger

	// RunIDs and Now allow overriding build identity (for testing).
	// If nil, build uses UUIDv7 ids and the wall clock.
	RunIDs ingest.RunIDGenerator
	Now    func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the recipekb CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipekb",
		Short: "recipekb - crafting recipe knowledge base",
		Long: `A crafting recipe knowledge base.

Build ingests a directory of recipe descriptions (JSON, YAML or CUE) into a
SQLite store. The query commands look recipes up by result, name or
ingredient, and work out what an inventory can craft.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to SQLite recipe store (default from config: recipes.db)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	// Add subcommands
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewNameCommand(opts))
	cmd.AddCommand(NewUsesCommand(opts))
	cmd.AddCommand(NewSourceCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewCraftableCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))

	return cmd
}

// prepare validates global flags, loads configuration and builds the logger.
// Flags win over environment and config file. Safe to call more than once.
func (o *RootOptions) prepare(cmd *cobra.Command) error {
	if o.Format == "" {
		o.Format = "text"
	}
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	if o.Config != nil && o.Logger != nil {
		return nil
	}

	f := o.formatter(cmd)

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	if o.DB != "" {
		cfg.DB = o.DB
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "invalid log level", err)
	}
	logger, err := logging.New(level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "invalid log format", err)
	}

	o.Config = cfg
	o.Logger = logger
	return nil
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openExisting opens the configured store for reading. A missing database
// file is a command error rather than an empty store.
func (o *RootOptions) openExisting(f *OutputFormatter) (*store.Store, error) {
	path := o.Config.DB
	if _, err := os.Stat(path); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("recipe store not found: %s (run 'recipekb build' first)", path), err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeStore, "failed to open database", err)
	}
	return st, nil
}

// engine builds a query engine over st using the resolved configuration.
func (o *RootOptions) engine(st *store.Store) *query.Engine {
	return query.New(st,
		query.WithNamespace(o.Config.Namespace),
		query.WithDefaultLimit(o.Config.DefaultLimit),
		query.WithLogger(o.Logger),
	)
}

// closeStore closes st, logging any error.
func (o *RootOptions) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		o.Logger.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or a background context when
// the command runs without one (direct RunE calls in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
