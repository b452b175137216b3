// Package querysql compiles queryir queries to parameterized SQLite SQL
// against the recipes table.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/recipekb/internal/queryir"
)

// Columns is the column list every compiled query selects, in scan order.
const Columns = "id, result_item, result_name, result_count, recipe_kind, source, ingredients_json, pattern_json"

// Table is the recipe table name.
const Table = "recipes"

// SQLCompiler compiles queryir queries to SQL.
//
// Every query is ordered by id so results follow store iteration order, and
// every value is passed as a parameter, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to SQL and its parameters.
func (c *SQLCompiler) Compile(q queryir.Select) (string, []any, error) {
	if err := queryir.Validate(q); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", Columns, Table)

	var params []any
	if q.Filter != nil {
		where, whereParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
		params = whereParams
	}

	b.WriteString(" ORDER BY id ASC")

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}

	return b.String(), params, nil
}

// compilePredicate compiles one predicate to a WHERE fragment.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.NameContains:
		return `result_name LIKE ? ESCAPE '\'`, []any{"%" + EscapeLike(pred.Substring) + "%"}, nil
	case queryir.KindEquals:
		return "recipe_kind = ?", []any{pred.Kind}, nil
	case queryir.ResultEquals:
		return "result_item = ?", []any{pred.Item}, nil
	case queryir.HasIngredient:
		if pred.Loose {
			// Unescaped on purpose: reproduces the historical substring filter.
			return "ingredients_json LIKE ?", []any{`%"` + pred.ID + `"%`}, nil
		}
		return "EXISTS (SELECT 1 FROM json_each(" + Table + ".ingredients_json) AS j WHERE j.value = ?)", []any{pred.ID}, nil
	case queryir.SourceContains:
		return "instr(source, ?) > 0", []any{pred.Substring}, nil
	case queryir.NonEmptyIngredients:
		return "ingredients_json IS NOT NULL AND ingredients_json <> '[]'", nil, nil
	case queryir.And:
		return c.compileAnd(pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileAnd joins the parts with AND. An empty conjunction is always true.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		params = append(params, predParams...)
	}

	return strings.Join(parts, " AND "), params, nil
}

// EscapeLike escapes the LIKE wildcards in s using backslash.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
