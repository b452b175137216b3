package query

import (
	"strings"

	"github.com/roach88/recipekb/internal/recipe"
)

// TagMatcher decides which concrete items satisfy a tag reference.
type TagMatcher interface {
	// Matches reports whether item counts toward tag. tag carries the tag
	// marker, e.g. "#minecraft:planks".
	Matches(tag, item string) bool
}

// SubstringTagMatcher treats an item as a member of a tag when the item id
// contains the tag's local name. "#minecraft:planks" matches
// "minecraft:oak_planks" but also "mod:planks_slab".
//
// It is an approximation of real tag membership, kept for compatibility with
// existing answers.
type SubstringTagMatcher struct{}

// Matches implements TagMatcher.
func (SubstringTagMatcher) Matches(tag, item string) bool {
	local := recipe.LocalName(tag)
	if local == "" {
		return false
	}
	return strings.Contains(item, local)
}

// TagTable is an exact tag membership table: tag id (with marker) to member
// item ids.
type TagTable map[string][]string

// Matches implements TagMatcher. Unknown tags match nothing.
func (t TagTable) Matches(tag, item string) bool {
	for _, member := range t[tag] {
		if member == item {
			return true
		}
	}
	return false
}
