// Package queryir describes recipe queries as a small predicate tree that
// backends compile to their own query language.
//
// The tree is deliberately narrow: it covers exactly the filters the query
// engine needs and nothing else.
//
//	NameContains         case-insensitive substring of the display name
//	KindEquals           exact recipe kind
//	ResultEquals         exact result item id
//	HasIngredient        ingredient id present in the multiset
//	NonEmptyIngredients  recipes that require at least one ingredient
//	And                  conjunction (empty = always true)
//
// Predicate is a sealed interface: only types in this package implement it,
// so backends can switch over it exhaustively.
//
// HasIngredient matches whole identifiers. Its Loose flag selects the legacy
// behaviour of a LIKE over the serialized multiset, which is case-insensitive
// and treats "_" in ids as a wildcard, so "minecraft:oak_log" also matches
// "minecraft:oakxlog". It exists for parity with older databases and is off by
// default.
package queryir
