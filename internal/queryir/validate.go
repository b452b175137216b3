package queryir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery is wrapped by every error Validate returns.
var ErrInvalidQuery = errors.New("invalid query")

// Validate checks that a query is well formed: a non-negative limit and no
// empty identifiers in its predicates. Validate is a pure function.
func Validate(q Select) error {
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	if q.Filter == nil {
		return nil
	}
	return validatePredicate(q.Filter, "filter")
}

func validatePredicate(p Predicate, path string) error {
	switch pred := p.(type) {
	case NameContains:
		// Empty substring matches every name.
		return nil
	case KindEquals:
		return requireValue(pred.Kind, path+".kind")
	case ResultEquals:
		return requireValue(pred.Item, path+".item")
	case HasIngredient:
		return requireValue(pred.ID, path+".ingredient")
	case SourceContains:
		return requireValue(pred.Substring, path+".source")
	case NonEmptyIngredients:
		return nil
	case And:
		for i, sub := range pred.Predicates {
			if sub == nil {
				return fmt.Errorf("%w: %s.and[%d] is nil", ErrInvalidQuery, path, i)
			}
			if err := validatePredicate(sub, fmt.Sprintf("%s.and[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported predicate %T at %s", ErrInvalidQuery, p, path)
	}
}

func requireValue(v, path string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidQuery, path)
	}
	return nil
}
