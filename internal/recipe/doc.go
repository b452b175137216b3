// Package recipe defines the canonical recipe record and the value types the
// rest of recipekb passes around.
//
// # Identifiers
//
// Item identifiers are namespaced strings such as "minecraft:chest". An
// identifier that starts with TagMarker is a tag reference ("#minecraft:planks")
// and stands for any item belonging to that tag. All identifiers are trimmed and
// NFC-normalized by CanonicalID before they are stored or compared.
//
// # Ingredients
//
// Raw recipe units express an ingredient slot in three shapes: a bare string,
// an object carrying "item" or "tag", or a list of alternatives. ParseIngredient
// maps them onto the Ingredient union (Item, Tag, Choice). A Choice resolves to
// its first alternative; this is a known simplification for slots that accept
// several items.
//
// # Records
//
// Record is immutable once built. Its Ingredients field is a sorted multiset:
// a slot that needs two planks contributes the plank identifier twice, and the
// sort makes two records with the same requirements compare equal regardless
// of how their source listed them.
package recipe
