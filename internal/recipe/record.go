package recipe

import "sort"

// Record is the canonical, persisted form of one recipe.
type Record struct {
	// ID is assigned by the store on insert. Zero until persisted.
	ID int64 `json:"id"`

	ResultItem  string `json:"result_item"`
	ResultName  string `json:"result_name"`
	ResultCount int    `json:"result_count"`

	// Kind is the recipe type tag, e.g. "minecraft:crafting_shaped".
	Kind string `json:"recipe_kind"`

	// Source identifies the unit the record was built from (filename stem).
	Source string `json:"source"`

	// Ingredients is the sorted ingredient multiset. Never nil once built.
	Ingredients []string `json:"ingredients"`

	// Pattern is the shape grid for shaped recipes, nil otherwise.
	Pattern []string `json:"pattern,omitempty"`
}

// SortIngredients puts ids into canonical order in place and returns it.
func SortIngredients(ids []string) []string {
	sort.Strings(ids)
	return ids
}

// IngredientCounts returns the multiplicity of every distinct ingredient.
func (r Record) IngredientCounts() map[string]int {
	counts := make(map[string]int, len(r.Ingredients))
	for _, id := range r.Ingredients {
		counts[id]++
	}
	return counts
}
