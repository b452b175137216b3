package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/recipekb/internal/query"
	"github.com/roach88/recipekb/internal/recipe"
)

// CraftableOptions holds flags for the craftable command.
type CraftableOptions struct {
	*RootOptions
	Exact bool
}

// NewCraftableCommand creates the craftable command.
func NewCraftableCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CraftableOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "craftable <item[=count]>...",
		Short: "List recipes an inventory can craft",
		Long: `List the recipes the given inventory can craft.

Each argument is an item id with an optional count ("oak_planks=8"). Repeated
items add up. Tag ingredients are satisfied by every held item whose id
contains the tag name ("#minecraft:planks" accepts "minecraft:oak_planks").

With --exact a recipe must need exactly the inventory: same items, same
counts, nothing left over. Tags are not expanded in exact mode.

Examples:
  recipekb craftable oak_planks=8 stick=4
  recipekb craftable --exact stick cobblestone`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCraftable(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Exact, "exact", false, "require the recipe to use exactly the inventory")

	return cmd
}

func runCraftable(opts *CraftableOptions, args []string, cmd *cobra.Command) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}

	inv := recipe.Inventory{}
	for _, arg := range args {
		id, n, err := recipe.ParseStack(arg, opts.Config.Namespace)
		if err != nil {
			return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeInvalidInput, "invalid inventory entry", err)
		}
		inv.Add(id, n)
	}

	q := map[string]any{"inventory": map[string]int(inv), "exact": opts.Exact}
	return runFind(opts.RootOptions, cmd, q, func(ctx context.Context, e *query.Engine) ([]recipe.Record, error) {
		return e.FindCraftable(ctx, inv, opts.Exact)
	})
}
