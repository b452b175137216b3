package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/recipekb/internal/query"
	"github.com/roach88/recipekb/internal/recipe"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Name        string
	Ingredients []string
	Kind        string
	Limit       int
	Loose       bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find recipes matching all given criteria",
		Long: `Find recipes matching every given criterion.

--ingredient may be repeated; each listed id must occur in the recipe at least
once. Ids are matched as whole tokens unless --loose is set, which uses the
legacy LIKE matching (case-insensitive, "_" matches any character).

Results are capped at --limit (default from config: 20).

Examples:
  recipekb search --name planks
  recipekb search --ingredient minecraft:stick --ingredient minecraft:cobblestone
  recipekb search --kind crafting_shapeless --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name substring (case-insensitive)")
	cmd.Flags().StringArrayVar(&opts.Ingredients, "ingredient", nil, "ingredient id that must be present (repeatable)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "exact recipe kind")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of results (0 = configured default)")
	cmd.Flags().BoolVar(&opts.Loose, "loose", false, "match ingredient ids with legacy LIKE matching")

	return cmd
}

func runSearch(opts *SearchOptions, cmd *cobra.Command) error {
	criteria := query.Criteria{
		Name:             opts.Name,
		Ingredients:      opts.Ingredients,
		Kind:             opts.Kind,
		Limit:            opts.Limit,
		LooseIngredients: opts.Loose,
	}

	q := map[string]any{}
	if opts.Name != "" {
		q["name"] = opts.Name
	}
	if len(opts.Ingredients) > 0 {
		q["ingredients"] = opts.Ingredients
	}
	if opts.Kind != "" {
		q["kind"] = opts.Kind
	}
	if opts.Limit != 0 {
		q["limit"] = opts.Limit
	}
	if opts.Loose {
		q["loose"] = true
	}

	return runFind(opts.RootOptions, cmd, q, func(ctx context.Context, e *query.Engine) ([]recipe.Record, error) {
		return e.FindByCriteria(ctx, criteria)
	})
}
