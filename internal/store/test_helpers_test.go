package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/recipekb/internal/normalize"
	"github.com/roach88/recipekb/internal/recipe"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with the minimal required fields.
func createTestRecord(result, kind, source string, ingredients ...string) recipe.Record {
	return recipe.Record{
		ResultItem:  result,
		ResultName:  recipe.DisplayName(result),
		ResultCount: 1,
		Kind:        kind,
		Source:      source,
		Ingredients: recipe.SortIngredients(ingredients),
	}
}

func testBuildInfo(runID string) BuildInfo {
	return BuildInfo{
		RunID:     runID,
		BuiltAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		SourceDir: "/data/recipes",
	}
}

// seedStore rebuilds s with a small fixed data set.
func seedStore(t *testing.T, s *Store) []recipe.Record {
	t.Helper()

	chest := createTestRecord("minecraft:chest", "minecraft:crafting_shaped", "chest",
		"minecraft:oak_planks", "minecraft:oak_planks", "minecraft:oak_planks", "minecraft:oak_planks",
		"minecraft:oak_planks", "minecraft:oak_planks", "minecraft:oak_planks", "minecraft:oak_planks")
	chest.Pattern = []string{"###", "# #", "###"}

	torch := createTestRecord("minecraft:torch", "minecraft:crafting_shaped", "torch",
		"#minecraft:coals", "minecraft:stick")
	torch.ResultCount = 4
	torch.Pattern = []string{"X", "#"}

	records := []recipe.Record{
		chest,
		torch,
		createTestRecord("minecraft:oak_planks", "minecraft:crafting_shapeless", "oak_planks", "#minecraft:oak_logs"),
		createTestRecord("minecraft:special_armor_dye", "minecraft:crafting_special_armordye", "armor_dye"),
		createTestRecord("minecraft:stone_brick_stairs", "minecraft:stonecutting", "stone_brick_stairs_from_stonecutting", "minecraft:stone_bricks"),
	}

	skips := []normalize.Skip{
		{Source: "broken", Reason: normalize.SkipUnparseable, Detail: "unexpected EOF"},
		{Source: "nothing", Reason: normalize.SkipNoResult},
	}

	if err := s.Rebuild(context.Background(), records, skips, testBuildInfo("run-1")); err != nil {
		t.Fatalf("Rebuild() failed: %v", err)
	}
	return records
}
