package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipekb/internal/recipe"
)

const (
	chestJSON = `{
  "type": "minecraft:crafting_shaped",
  "key": {"#": "#minecraft:planks"},
  "pattern": ["###", "# #", "###"],
  "result": {"count": 1, "id": "minecraft:chest"}
}`

	stickJSON = `{
  "type": "minecraft:crafting_shaped",
  "key": {"#": "#minecraft:planks"},
  "pattern": ["#", "#"],
  "result": {"count": 4, "id": "minecraft:stick"}
}`

	torchYAML = `
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

	leverCUE = `
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
)

// writeRecipes creates a recipes directory. Store ids follow file order:
// chest 1, lever 2, stick 3, torch 4. broken.json is skipped.
func writeRecipes(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"broken.json": `{"type": `,
		"chest.json":  chestJSON,
		"lever.cue":   leverCUE,
		"stick.json":  stickJSON,
		"torch.yaml":  torchYAML,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// built returns a harness whose store holds writeRecipes' contents.
func built(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	_, _, err := h.run("build", writeRecipes(t))
	require.NoError(t, err)
	return h
}

// jsonRecipes runs a listing command in JSON mode and returns the result items.
func (h *harness) jsonRecipes(args ...string) []string {
	h.t.Helper()
	out, _, err := h.run(append([]string{"--format", "json"}, args...)...)
	require.NoError(h.t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   RecipesResult `json:"data"`
	}
	require.NoError(h.t, json.Unmarshal([]byte(out), &resp))
	require.Equal(h.t, "ok", resp.Status)
	require.Equal(h.t, resp.Data.Count, len(resp.Data.Recipes))

	items := []string{}
	for _, r := range resp.Data.Recipes {
		items = append(items, r.ResultItem)
	}
	return items
}

func TestBuild_JSON(t *testing.T) {
	h := newHarness(t)
	dir := writeRecipes(t)

	out, _, err := h.run("--format", "json", "build", dir)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   BuildResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.Data.RunID)
	assert.Equal(t, "2024-01-01T00:00:00Z", resp.Data.BuiltAt)
	assert.Equal(t, dir, resp.Data.SourceDir)
	assert.Equal(t, 5, resp.Data.Files)
	assert.Equal(t, 4, resp.Data.Processed)
	assert.Equal(t, 1, resp.Data.Skipped)
	require.Len(t, resp.Data.Skips, 1)
	assert.Equal(t, "broken", resp.Data.Skips[0].Source)
}

func TestBuild_Text(t *testing.T) {
	h := newHarness(t)
	dir := writeRecipes(t)

	out, _, err := h.run("build", "--workers", "1", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Built 4 recipe(s) from 5 file(s)")
	assert.Contains(t, out, "Run: run-1 at 2024-01-01T00:00:00Z")
	assert.Contains(t, out, "skipped broken: unparseable source unit")
}

func TestBuild_RebuildReplaces(t *testing.T) {
	h := built(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stick.json"), []byte(stickJSON), 0644))
	_, _, err := h.run("build", dir)
	require.NoError(t, err)

	out, _, err := h.run("count")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, _, err = h.run("info")
	require.NoError(t, err)
	assert.Contains(t, out, "Run:       run-2")
	assert.Contains(t, out, "Built at:  2024-01-01T01:00:00Z")
}

func TestBuild_MissingDirectory(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("build", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "recipes directory not usable")
}

func TestBuild_MetricsFile(t *testing.T) {
	h := newHarness(t)
	metrics := filepath.Join(t.TempDir(), "recipekb.prom")

	_, _, err := h.run("build", "--metrics-file", metrics, writeRecipes(t))
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "recipekb_ingest_units_total")
}

func TestQueryCommands_MissingStore(t *testing.T) {
	tests := [][]string{
		{"lookup", "chest"},
		{"name", "chest"},
		{"uses", "stick"},
		{"source", "chest"},
		{"search", "--name", "chest"},
		{"craftable", "stick"},
		{"count"},
		{"info"},
	}

	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			h := newHarness(t)
			_, _, err := h.run(args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "recipe store not found")

			_, statErr := os.Stat(h.db)
			assert.True(t, os.IsNotExist(statErr), "query commands must not create the store")
		})
	}
}

func TestQueryCommands_MissingStoreJSON(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("--format", "json", "count")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestLookup(t *testing.T) {
	h := built(t)

	assert.Equal(t, []string{"minecraft:torch"}, h.jsonRecipes("lookup", "minecraft:torch"))
	assert.Equal(t, []string{"minecraft:torch"}, h.jsonRecipes("lookup", "torch"))
	assert.Equal(t, []string{}, h.jsonRecipes("lookup", "minecraft:diamond"))
}

func TestLookup_Text(t *testing.T) {
	h := built(t)

	out, _, err := h.run("lookup", "chest")
	require.NoError(t, err)
	assert.Equal(t, `1 recipe(s):

minecraft:chest  1x Chest  (minecraft:crafting_shaped, chest)
  ingredients: 8x #minecraft:planks
  pattern:     ### | # # | ###
`, out)

	out, _, err = h.run("lookup", "diamond")
	require.NoError(t, err)
	assert.Equal(t, "No recipes found.\n", out)
}

func TestLookup_JSONRecord(t *testing.T) {
	h := built(t)

	out, _, err := h.run("--format", "json", "lookup", "torch")
	require.NoError(t, err)

	var resp struct {
		Data RecipesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, map[string]any{"result": "torch"}, resp.Data.Query)
	require.Len(t, resp.Data.Recipes, 1)

	want := recipe.Record{
		ID:          4,
		ResultItem:  "minecraft:torch",
		ResultName:  "Torch",
		ResultCount: 4,
		Kind:        "minecraft:crafting_shaped",
		Source:      "torch",
		Ingredients: []string{"#minecraft:coals", "minecraft:stick"},
		Pattern:     []string{"X", "#"},
	}
	assert.Equal(t, want, resp.Data.Recipes[0])
}

func TestName(t *testing.T) {
	h := built(t)

	assert.Equal(t, []string{"minecraft:chest", "minecraft:torch"}, h.jsonRecipes("name", "CH"))
	assert.Equal(t, []string{"minecraft:lever"}, h.jsonRecipes("name", "lev"))
	assert.Equal(t, []string{}, h.jsonRecipes("name", "%"))
}

func TestUses(t *testing.T) {
	h := built(t)

	assert.Equal(t, []string{"minecraft:lever", "minecraft:torch"}, h.jsonRecipes("uses", "minecraft:stick"))
	assert.Equal(t, []string{"minecraft:chest", "minecraft:stick"}, h.jsonRecipes("uses", "#minecraft:planks"))
	assert.Equal(t, []string{}, h.jsonRecipes("uses", "minecraft:oak_planks"))
}

func TestSource(t *testing.T) {
	h := built(t)

	assert.Equal(t, []string{"minecraft:chest", "minecraft:stick"}, h.jsonRecipes("source", "st"))
	assert.Equal(t, []string{"minecraft:lever"}, h.jsonRecipes("source", "lever"))
	assert.Equal(t, []string{}, h.jsonRecipes("source", "broken"))
}

func TestSearch(t *testing.T) {
	h := built(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"by name", []string{"--name", "st"}, []string{"minecraft:chest", "minecraft:stick"}},
		{"all ingredients", []string{"--ingredient", "stick", "--ingredient", "cobblestone"}, []string{"minecraft:lever"}},
		{"kind and limit", []string{"--kind", "crafting_shaped", "--limit", "2"}, []string{"minecraft:chest", "minecraft:lever"}},
		{"loose ignores case", []string{"--ingredient", "MINECRAFT:STICK", "--loose"}, []string{"minecraft:lever", "minecraft:torch"}},
		{"exact is case-sensitive", []string{"--ingredient", "MINECRAFT:STICK"}, []string{}},
		{"no criteria", nil, []string{"minecraft:chest", "minecraft:lever", "minecraft:stick", "minecraft:torch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"search"}, tt.args...)
			assert.Equal(t, tt.want, h.jsonRecipes(args...))
		})
	}
}

func TestSearch_NegativeLimit(t *testing.T) {
	h := built(t)

	_, _, err := h.run("search", "--limit=-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid query")
}

func TestCraftable(t *testing.T) {
	h := built(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"tags match held planks", []string{"oak_planks=8", "stick=4"}, []string{"minecraft:chest", "minecraft:stick"}},
		{"stacks add up", []string{"oak_planks", "birch_planks"}, []string{"minecraft:stick"}},
		{"exact", []string{"--exact", "stick", "cobblestone"}, []string{"minecraft:lever"}},
		{"exact rejects leftovers", []string{"--exact", "stick", "cobblestone", "dirt"}, []string{}},
		{"nothing craftable", []string{"dirt=64"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"craftable"}, tt.args...)
			assert.Equal(t, tt.want, h.jsonRecipes(args...))
		})
	}
}

func TestCraftable_InvalidStack(t *testing.T) {
	h := built(t)

	for _, arg := range []string{"stick=0", "stick=many", "#minecraft:planks"} {
		t.Run(arg, func(t *testing.T) {
			_, _, err := h.run("craftable", arg)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "invalid inventory entry")
		})
	}
}

func TestCount(t *testing.T) {
	h := built(t)

	out, _, err := h.run("count")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestInfo(t *testing.T) {
	h := built(t)

	out, _, err := h.run("--format", "json", "info")
	require.NoError(t, err)

	var resp struct {
		Data InfoResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Built)
	assert.Equal(t, h.db, resp.Data.DB)
	assert.Equal(t, "run-1", resp.Data.RunID)
	assert.Equal(t, "2024-01-01T00:00:00Z", resp.Data.BuiltAt)
	assert.Equal(t, 4, resp.Data.Records)
	assert.Equal(t, 4, resp.Data.Processed)
	assert.Equal(t, 1, resp.Data.Skipped)
	require.Len(t, resp.Data.Skips, 1)
	assert.Equal(t, "broken", resp.Data.Skips[0].Source)

	out, _, err = h.run("info")
	require.NoError(t, err)
	assert.Contains(t, out, "Recipes:   4")
	assert.Contains(t, out, "  broken: unparseable source unit")
}
