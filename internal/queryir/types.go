package queryir

// Predicate is a filter over recipe records.
type Predicate interface {
	predicateNode() // seals the interface to this package
}

// Select is a query over the recipe table. Results are always ordered by
// record id.
type Select struct {
	// Filter restricts the rows returned. Nil selects every row.
	Filter Predicate

	// Limit caps the number of rows. Zero means no limit.
	Limit int
}

// NameContains matches records whose display name contains Substring,
// ignoring case.
type NameContains struct {
	Substring string
}

func (NameContains) predicateNode() {}

// KindEquals matches records of exactly this recipe kind.
type KindEquals struct {
	Kind string
}

func (KindEquals) predicateNode() {}

// ResultEquals matches records producing exactly this item.
type ResultEquals struct {
	Item string
}

func (ResultEquals) predicateNode() {}

// HasIngredient matches records whose ingredient multiset contains ID at
// least once. Tags are not expanded.
type HasIngredient struct {
	ID    string
	Loose bool
}

func (HasIngredient) predicateNode() {}

// SourceContains matches records whose source unit name contains Substring.
// Matching is case-sensitive.
type SourceContains struct {
	Substring string
}

func (SourceContains) predicateNode() {}

// NonEmptyIngredients matches records that need at least one ingredient.
type NonEmptyIngredients struct{}

func (NonEmptyIngredients) predicateNode() {}

// And matches when every predicate matches.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// AllOf builds an And from the non-nil predicates. A single predicate is
// returned as is.
func AllOf(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}
