package query

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/recipekb/internal/normalize"
	"github.com/roach88/recipekb/internal/recipe"
	"github.com/roach88/recipekb/internal/store"
)

func planksTag() map[string]any {
	return map[string]any{"tag": "minecraft:planks"}
}

func item(id string) map[string]any {
	return map[string]any{"item": id}
}

func shaped(result string, count int, pattern []any, key map[string]any) map[string]any {
	return map[string]any{
		"type":    "minecraft:crafting_shaped",
		"pattern": pattern,
		"key":     key,
		"result":  map[string]any{"id": result, "count": count},
	}
}

// fixtureUnits is a small recipe set in fixed store order.
func fixtureUnits() []normalize.Unit {
	return []normalize.Unit{
		{Source: "chest", Data: shaped("minecraft:chest", 1,
			[]any{"###", "# #", "###"}, map[string]any{"#": planksTag()})},
		{Source: "stick", Data: shaped("minecraft:stick", 4,
			[]any{"#", "#"}, map[string]any{"#": planksTag()})},
		{Source: "crafting_table", Data: shaped("minecraft:crafting_table", 1,
			[]any{"##", "##"}, map[string]any{"#": planksTag()})},
		{Source: "plank_crate", Data: shaped("minecraft:plank_crate", 1,
			[]any{"###", "###", "###"}, map[string]any{"#": planksTag()})},
		{Source: "lever", Data: shaped("minecraft:lever", 1,
			[]any{"X", "#"}, map[string]any{"X": item("minecraft:stick"), "#": item("minecraft:cobblestone")})},
		{Source: "torch", Data: shaped("minecraft:torch", 4,
			[]any{"X", "#"}, map[string]any{
				"X": []any{item("minecraft:coal"), item("minecraft:charcoal")},
				"#": item("minecraft:stick"),
			})},
		{Source: "armor_dye", Data: map[string]any{
			"type": "minecraft:crafting_special_armordye",
		}},
		{Source: "oak_planks", Data: map[string]any{
			"type":        "minecraft:crafting_shapeless",
			"ingredients": []any{map[string]any{"tag": "minecraft:oak_logs"}},
			"result":      map[string]any{"id": "minecraft:oak_planks", "count": 4},
		}},
	}
}

// newFixtureStore opens a temporary store rebuilt from units.
func newFixtureStore(t *testing.T, units []normalize.Unit) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	rebuild(t, s, units)
	return s
}

func rebuild(t *testing.T, s *store.Store, units []normalize.Unit) {
	t.Helper()

	records, report := normalize.New(normalize.Options{}).Run(units)
	require.Empty(t, report.Skips)

	err := s.Rebuild(context.Background(), records, report.Skips, store.BuildInfo{
		RunID:   "test-run",
		BuiltAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

func newFixtureEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(newFixtureStore(t, fixtureUnits()), opts...)
}

func resultItems(records []recipe.Record) []string {
	items := make([]string, 0, len(records))
	for _, r := range records {
		items = append(items, r.ResultItem)
	}
	return items
}

func inventory(t *testing.T, stacks ...string) recipe.Inventory {
	t.Helper()
	inv := recipe.Inventory{}
	for _, s := range stacks {
		id, n, err := recipe.ParseStack(s, recipe.DefaultNamespace)
		require.NoError(t, err)
		inv.Add(id, n)
	}
	return inv
}
