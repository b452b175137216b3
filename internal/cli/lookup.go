package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/recipekb/internal/query"
	"github.com/roach88/recipekb/internal/queryir"
	"github.com/roach88/recipekb/internal/recipe"
)

// finder runs one engine query for a recipe-listing command.
type finder func(ctx context.Context, e *query.Engine) ([]recipe.Record, error)

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <item-id>",
		Short: "Find the recipes producing an item",
		Long: `Find every recipe whose result is exactly the given item.

An id without a namespace gets the configured one ("chest" is looked up as
"minecraft:chest").

Examples:
  recipekb lookup minecraft:chest
  recipekb lookup torch --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return runFind(rootOpts, cmd, map[string]any{"result": id},
				func(ctx context.Context, e *query.Engine) ([]recipe.Record, error) {
					return e.FindByResultID(ctx, id)
				})
		},
	}
}

// NewNameCommand creates the name command.
func NewNameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "name <substring>...",
		Short: "Find recipes by display name",
		Long: `Find every recipe whose result display name contains the text,
ignoring case. Multiple arguments are joined with spaces.

Examples:
  recipekb name planks
  recipekb name armor dye`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return runFind(rootOpts, cmd, map[string]any{"name": name},
				func(ctx context.Context, e *query.Engine) ([]recipe.Record, error) {
					return e.FindByName(ctx, name)
				})
		},
	}
}

// NewUsesCommand creates the uses command.
func NewUsesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "uses <ingredient-id>",
		Short: "Find recipes that use an exact ingredient",
		Long: `Find every recipe whose ingredients contain the exact id.

Tags are not expanded: "uses minecraft:oak_planks" does not find recipes that
ask for "#minecraft:planks". Query the tag itself for those.

Examples:
  recipekb uses minecraft:stick
  recipekb uses '#minecraft:planks'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return runFind(rootOpts, cmd, map[string]any{"ingredient": id},
				func(ctx context.Context, e *query.Engine) ([]recipe.Record, error) {
					return e.FindByIngredientExact(ctx, id)
				})
		},
	}
}

// NewSourceCommand creates the source command.
func NewSourceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "source <term>",
		Short: "Find recipes by source file name",
		Long: `Find every recipe whose source file name (without extension) contains the
term. Matching is case-sensitive. Names where "from" comes before the term are
left out, so "stone_bricks" does not list "stone_from_stone_bricks_stonecutting".

Examples:
  recipekb source stone_bricks`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			term := args[0]
			return runFind(rootOpts, cmd, map[string]any{"source": term},
				func(ctx context.Context, e *query.Engine) ([]recipe.Record, error) {
					return e.FindBySource(ctx, term)
				})
		},
	}
}

// runFind opens the store, runs find and prints the records.
func runFind(opts *RootOptions, cmd *cobra.Command, q map[string]any, find finder) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	f := opts.formatter(cmd)

	st, err := opts.openExisting(f)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	records, err := find(commandContext(cmd), opts.engine(st))
	if err != nil {
		if errors.Is(err, queryir.ErrInvalidQuery) {
			return f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid query", err)
		}
		return f.Fail(ExitFailure, ErrCodeStore, "query failed", err)
	}

	return f.Success(RecipesResult{Query: q, Count: len(records), Recipes: records})
}
