// Package normalize resolves the many historical shapes of a recipe unit into
// a canonical recipe.Record.
//
// Result resolution, first match wins:
//
//  1. "result" object with "id" or "item" and optional "count" (default 1)
//  2. "result" string
//  3. dynamic-result kinds (smithing trim, decorated pot) get "special_<source>"
//  4. kinds under the "crafting_special_" prefix get "special_<source>"
//
// Anything else is skipped with SkipNoResult.
//
// Ingredients are collected from "ingredients" (one occurrence per entry),
// from the single-value fields "ingredient", "base", "addition", "input" and
// "material", and for shaped recipes from every non-blank cell of "pattern"
// looked up in "key". A unit without ingredients is skipped unless its kind is
// special or the decorated pot.
package normalize
