package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipekb/internal/normalize"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeUnit(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const chestJSON = `{
  "type": "minecraft:crafting_shaped",
  "category": "misc",
  "key": {"#": "#minecraft:planks"},
  "pattern": ["###", "# #", "###"],
  "result": {"count": 1, "id": "minecraft:chest"}
}`

const torchYAML = `
type: minecraft:crafting_shaped
key:
  "#": minecraft:stick
  X: "#minecraft:coals"
pattern:
  - X
  - "#"
result:
  id: minecraft:torch
  count: 4
`

const leverCUE = `
type: "minecraft:crafting_shaped"
key: {
	"#": "minecraft:stick"
	X:   "minecraft:cobblestone"
}
pattern: ["#", "X"]
result: {
	id:    "minecraft:lever"
	count: 1
}
`

func TestLoadDir_MixedEncodings(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "chest.json", chestJSON)
	writeUnit(t, dir, "torch.yaml", torchYAML)
	writeUnit(t, dir, "lever.cue", leverCUE)
	writeUnit(t, dir, "README.md", "not a recipe")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	res, err := LoadDir(context.Background(), dir, Options{Workers: 2, Logger: quietLogger})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Files)
	assert.Equal(t, dir, res.SourceDir)
	require.Len(t, res.Records, 3)
	assert.Empty(t, res.Report.Skips)

	// Sorted by file name: chest, lever, torch.
	assert.Equal(t, "minecraft:chest", res.Records[0].ResultItem)
	assert.Equal(t, "minecraft:lever", res.Records[1].ResultItem)
	assert.Equal(t, "minecraft:torch", res.Records[2].ResultItem)

	assert.Len(t, res.Records[0].Ingredients, 8)
	assert.Equal(t, []string{"minecraft:cobblestone", "minecraft:stick"}, res.Records[1].Ingredients)
	assert.Equal(t, 4, res.Records[2].ResultCount)
	assert.Equal(t, []string{"#minecraft:coals", "minecraft:stick"}, res.Records[2].Ingredients)
}

func TestLoadDir_DigitSymbolsAgreeAcrossEncodings(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a.cue", `
type: "minecraft:crafting_shaped"
pattern: ["11", "11"]
key: "1": item: "minecraft:stone"
result: {id: "minecraft:stone_bricks", count: 4}
`)
	writeUnit(t, dir, "b.yaml", bricksYAML)
	writeUnit(t, dir, "c.json", `{
  "type": "minecraft:crafting_shaped",
  "pattern": ["11", "11"],
  "key": {"1": {"item": "minecraft:stone"}},
  "result": {"id": "minecraft:stone_bricks", "count": 4}
}`)

	res, err := LoadDir(context.Background(), dir, Options{Workers: 3, Logger: quietLogger})
	require.NoError(t, err)
	assert.Empty(t, res.Report.Skips)
	require.Len(t, res.Records, 3)

	stone := []string{"minecraft:stone", "minecraft:stone", "minecraft:stone", "minecraft:stone"}
	for _, rec := range res.Records {
		assert.Equal(t, "minecraft:stone_bricks", rec.ResultItem, rec.Source)
		assert.Equal(t, stone, rec.Ingredients, rec.Source)
		assert.Equal(t, []string{"11", "11"}, rec.Pattern, rec.Source)
	}
}

func TestLoadDir_MalformedUnitsAreSkipped(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "chest.json", chestJSON)
	writeUnit(t, dir, "broken.json", `{"type": "minecraft:crafting_shaped",`)
	writeUnit(t, dir, "array.json", `["not", "an", "object"]`)
	writeUnit(t, dir, "trailing.json", `{"result": "minecraft:stick"} {}`)
	writeUnit(t, dir, "bad.yaml", "key: [unclosed")
	writeUnit(t, dir, "open.cue", "result: string\n")

	res, err := LoadDir(context.Background(), dir, Options{Logger: quietLogger})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Files)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Report.Processed)
	require.Len(t, res.Report.Skips, 5)
	for _, s := range res.Report.Skips {
		assert.Equal(t, normalize.SkipUnparseable, s.Reason, s.Source)
		assert.NotEmpty(t, s.Detail, s.Source)
	}
	assert.GreaterOrEqual(t, res.Report.Processed, res.Files-5)
}

func TestLoadDir_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "chest.json", chestJSON)
	writeUnit(t, dir, "torch.yaml", torchYAML)
	writeUnit(t, dir, "lever.cue", leverCUE)

	first, err := LoadDir(context.Background(), dir, Options{Workers: 1, Logger: quietLogger})
	require.NoError(t, err)
	second, err := LoadDir(context.Background(), dir, Options{Workers: 8, Logger: quietLogger})
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{Logger: quietLogger})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDir_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "chest.json", chestJSON)

	_, err := LoadDir(context.Background(), filepath.Join(dir, "chest.json"), Options{Logger: quietLogger})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadDir_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "chest.json", chestJSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadDir(ctx, dir, Options{Logger: quietLogger})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDir_EmptyDirectory(t *testing.T) {
	res, err := LoadDir(context.Background(), t.TempDir(), Options{Logger: quietLogger})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Files)
	assert.Empty(t, res.Records)
}

func TestSourceID(t *testing.T) {
	assert.Equal(t, "armor_dye", SourceID("/data/recipes/armor_dye.json"))
	assert.Equal(t, "oak.planks", SourceID("oak.planks.yaml"))
}

func TestSupported(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml", ".cue", ".JSON"} {
		assert.True(t, Supported(ext), ext)
	}
	assert.False(t, Supported(".md"))
}
