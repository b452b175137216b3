package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/recipekb/internal/recipe"
)

// Options configures a Normalizer.
type Options struct {
	// Namespace qualifies bare identifiers and names the built-in recipe
	// kinds. Defaults to recipe.DefaultNamespace.
	Namespace string
}

// Normalizer turns raw recipe units into canonical records.
//
// A Normalizer holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	namespace string

	// Kinds whose result depends on the inputs and is not declared.
	dynamicKinds map[string]bool

	// Kinds allowed to declare no ingredients besides the special ones.
	emptyKinds map[string]bool

	specialPrefix string
}

// singleFields hold one ingredient value each; a list there is a choice slot.
var singleFields = []string{"ingredient", "base", "addition", "input", "material"}

// New creates a Normalizer.
func New(opts Options) *Normalizer {
	ns := opts.Namespace
	if ns == "" {
		ns = recipe.DefaultNamespace
	}
	decoratedPot := ns + ":crafting_decorated_pot"
	return &Normalizer{
		namespace: ns,
		dynamicKinds: map[string]bool{
			ns + ":smithing_trim": true,
			decoratedPot:          true,
		},
		emptyKinds: map[string]bool{
			decoratedPot: true,
		},
		specialPrefix: ns + ":crafting_special_",
	}
}

// Namespace returns the namespace used to qualify identifiers.
func (n *Normalizer) Namespace() string {
	return n.namespace
}

// Normalize converts one decoded recipe unit. Exactly one of the return values
// is meaningful: a Record when skip is nil, otherwise the reason the unit was
// dropped. Malformed input never panics.
func (n *Normalizer) Normalize(raw map[string]any, source string) (rec recipe.Record, skip *Skip) {
	defer func() {
		if r := recover(); r != nil {
			rec = recipe.Record{}
			skip = &Skip{Source: source, Reason: SkipUnparseable, Detail: fmt.Sprint(r)}
		}
	}()

	if raw == nil {
		return recipe.Record{}, &Skip{Source: source, Reason: SkipUnparseable, Detail: "empty unit"}
	}

	kind := n.kindOf(raw)

	resultID, count, skip := n.resolveResult(raw, kind, source)
	if skip != nil {
		return recipe.Record{}, skip
	}

	pattern, ok := patternOf(raw)
	if !ok {
		return recipe.Record{}, &Skip{Source: source, Reason: SkipBadPattern}
	}

	ingredients := n.resolveIngredients(raw, pattern)
	if len(ingredients) == 0 && !n.AllowsEmpty(kind) {
		return recipe.Record{}, &Skip{Source: source, Reason: SkipNoIngredients}
	}

	return recipe.Record{
		ResultItem:  resultID,
		ResultName:  recipe.DisplayName(resultID),
		ResultCount: count,
		Kind:        kind,
		Source:      source,
		Ingredients: recipe.SortIngredients(ingredients),
		Pattern:     pattern,
	}, nil
}

// AllowsEmpty reports whether kind may legitimately declare no ingredients.
func (n *Normalizer) AllowsEmpty(kind string) bool {
	return n.isSpecial(kind) || n.emptyKinds[kind]
}

func (n *Normalizer) isSpecial(kind string) bool {
	return strings.HasPrefix(kind, n.specialPrefix)
}

func (n *Normalizer) kindOf(raw map[string]any) string {
	kind, _ := raw["type"].(string)
	if strings.TrimSpace(kind) == "" {
		return recipe.UnknownKind
	}
	return recipe.Qualify(kind, n.namespace)
}

// resolveResult applies the result rules in priority order: structured
// result, bare string result, dynamic-result kind, special kind.
func (n *Normalizer) resolveResult(raw map[string]any, kind, source string) (string, int, *Skip) {
	var id string
	count := 1

	switch result := raw["result"].(type) {
	case map[string]any:
		id = firstString(result, "id", "item")
		if v, present := result["count"]; present {
			c, ok := toInt(v)
			if !ok || c <= 0 {
				return "", 0, &Skip{Source: source, Reason: SkipBadCount, Detail: fmt.Sprint(v)}
			}
			count = c
		}
	case string:
		id = result
	}

	id = recipe.Qualify(id, n.namespace)
	if id != "" {
		return id, count, nil
	}

	if n.dynamicKinds[kind] || n.isSpecial(kind) {
		return n.namespace + ":special_" + source, 1, nil
	}
	return "", 0, &Skip{Source: source, Reason: SkipNoResult}
}

// resolveIngredients flattens every ingredient field into one unsorted
// multiset.
func (n *Normalizer) resolveIngredients(raw map[string]any, pattern []string) []string {
	ids := []string{}
	add := func(ing recipe.Ingredient) {
		if ing == nil {
			return
		}
		for _, id := range ing.IDs() {
			if q := recipe.Qualify(id, n.namespace); q != "" {
				ids = append(ids, q)
			}
		}
	}

	if v, ok := raw["ingredients"]; ok {
		if list, isList := v.([]any); isList {
			for _, entry := range list {
				add(recipe.ParseIngredient(entry))
			}
		} else {
			add(recipe.ParseIngredient(v))
		}
	}

	for _, field := range singleFields {
		if v, ok := raw[field]; ok {
			add(recipe.ParseIngredient(v))
		}
	}

	// Shaped: one occurrence per grid cell.
	if key, ok := raw["key"].(map[string]any); ok {
		for _, row := range pattern {
			for _, symbol := range row {
				if symbol == ' ' {
					continue
				}
				if v, bound := key[string(symbol)]; bound {
					add(recipe.ParseIngredient(v))
				}
			}
		}
	}

	return ids
}

// patternOf extracts the shape grid. A missing pattern is nil and valid; a
// pattern that is not a list of strings is reported as malformed.
func patternOf(raw map[string]any) ([]string, bool) {
	v, present := raw["pattern"]
	if !present || v == nil {
		return nil, true
	}
	switch rows := v.(type) {
	case []string:
		if len(rows) == 0 {
			return nil, true
		}
		return append([]string(nil), rows...), true
	case []any:
		if len(rows) == 0 {
			return nil, true
		}
		out := make([]string, len(rows))
		for i, row := range rows {
			s, ok := row.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// toInt accepts the integer shapes produced by the JSON, YAML and CUE
// decoders.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return toInt(f)
	case string, bool, nil:
		return 0, false
	default:
		i, err := strconv.Atoi(fmt.Sprint(v))
		if err != nil {
			return 0, false
		}
		return i, true
	}
}
