package query

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/recipekb/internal/recipe"
)

// candidate is a craftable-candidate record with its requirement counts
// precomputed.
type candidate struct {
	record recipe.Record
	needs  map[string]int
}

// FindCraftable returns the recipes that inv can satisfy, in store order.
//
// Recipes without ingredients are never returned. In exact mode a recipe
// qualifies only when its multiset equals inv: same ids, same quantities,
// nothing left over. Otherwise every distinct requirement must be covered:
// concrete ids by their own count, tag references by the summed counts of
// the items the TagMatcher accepts.
func (e *Engine) FindCraftable(ctx context.Context, inv recipe.Inventory, exact bool) ([]recipe.Record, error) {
	defer observe("craftable", time.Now())

	result := []recipe.Record{}
	if inv.Size() == 0 {
		return result, nil
	}

	candidates, err := e.craftCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("find craftable: %w", err)
	}

	for _, c := range candidates {
		var ok bool
		if exact {
			ok = inv.Equal(c.needs)
		} else {
			ok = e.covers(inv, c.needs)
		}
		if ok {
			result = append(result, c.record)
		}
	}

	e.logger.Debug("query", "op", "find craftable",
		"exact", exact,
		"inventory_items", inv.Size(),
		"candidates", len(candidates),
		"results", len(result))
	return result, nil
}

// covers reports whether inv holds enough of every requirement. It stops at
// the first unmet one.
func (e *Engine) covers(inv recipe.Inventory, needs map[string]int) bool {
	for id, need := range needs {
		if e.available(inv, id) < need {
			return false
		}
	}
	return true
}

// available returns how many inventory items can fill a slot asking for id.
func (e *Engine) available(inv recipe.Inventory, id string) int {
	if !recipe.IsTag(id) {
		return inv[id]
	}
	total := 0
	for item, n := range inv {
		if e.tags.Matches(id, item) {
			total += n
		}
	}
	return total
}

// craftCandidates returns the non-empty records of the current store
// generation, loading them once per generation.
func (e *Engine) craftCandidates(ctx context.Context) ([]candidate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gen := e.src.Generation()
	if e.loaded && e.cachedGen == gen {
		return e.candidates, nil
	}

	records, err := e.src.CraftCandidates(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(records))
	for _, rec := range records {
		if len(rec.Ingredients) == 0 {
			continue
		}
		candidates = append(candidates, candidate{record: rec, needs: rec.IngredientCounts()})
	}

	e.candidates = candidates
	e.cachedGen = gen
	e.loaded = true
	e.logger.Debug("craft candidates loaded", "generation", gen, "count", len(candidates))
	return candidates, nil
}
