package recipe

import "strings"

// Ingredient is one slot requirement as found in a raw recipe unit.
// It is a closed union of Item, Tag and Choice.
type Ingredient interface {
	// IDs returns the identifiers this slot contributes to a multiset.
	IDs() []string

	ingredientNode()
}

// Item is a concrete item identifier.
type Item string

// Tag is a tag reference. The value always carries TagMarker.
type Tag string

// Choice is a slot that accepts any one of several alternatives.
type Choice []Ingredient

func (Item) ingredientNode()   {}
func (Tag) ingredientNode()    {}
func (Choice) ingredientNode() {}

// IDs implements Ingredient.
func (i Item) IDs() []string {
	if i == "" {
		return nil
	}
	return []string{string(i)}
}

// IDs implements Ingredient.
func (t Tag) IDs() []string {
	if t == "" || string(t) == TagMarker {
		return nil
	}
	return []string{string(t)}
}

// IDs implements Ingredient. Only the first alternative represents the slot.
func (c Choice) IDs() []string {
	if len(c) == 0 || c[0] == nil {
		return nil
	}
	return c[0].IDs()
}

// NewTag builds a Tag from a tag name with or without the marker.
func NewTag(name string) Tag {
	name = CanonicalID(name)
	if name == "" {
		return ""
	}
	if !IsTag(name) {
		name = TagMarker + name
	}
	return Tag(name)
}

// ParseIngredient converts a decoded ingredient value into the Ingredient
// union. Values of any other shape yield nil; callers treat nil as a slot that
// contributes nothing.
func ParseIngredient(v any) Ingredient {
	switch val := v.(type) {
	case string:
		id := CanonicalID(val)
		if id == "" {
			return nil
		}
		if IsTag(id) {
			return Tag(id)
		}
		return Item(id)
	case map[string]any:
		if item, ok := val["item"].(string); ok && strings.TrimSpace(item) != "" {
			return Item(CanonicalID(item))
		}
		if tag, ok := val["tag"].(string); ok && strings.TrimSpace(tag) != "" {
			return NewTag(tag)
		}
		return nil
	case []any:
		choice := make(Choice, len(val))
		for i, alt := range val {
			choice[i] = ParseIngredient(alt)
		}
		return choice
	default:
		return nil
	}
}
