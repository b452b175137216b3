// Package query answers lookups and craftability questions over the recipe
// store.
//
// An Engine wraps a Source (normally *store.Store) and is safe for concurrent
// use. Every operation is read-only. Absence is an empty, non-nil slice, never
// an error; errors are reserved for storage failures.
//
// Craftability is decided against the sorted ingredient multiset of each
// record. Concrete items need at least (or, in exact mode, exactly) the held
// quantity. Tag references are resolved through a TagMatcher, by default the
// local-name substring approximation:
//
//	#minecraft:planks  is satisfied by  minecraft:oak_planks, minecraft:birch_planks, ...
package query
