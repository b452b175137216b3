package recipe

import "fmt"

// Summary is the compact view of a record handed to tool callers.
type Summary struct {
	Type        string   `json:"type"`
	Output      string   `json:"output"`
	Ingredients []string `json:"ingredients"`
	Pattern     []string `json:"pattern"`
}

// Summary formats the record, e.g. output "4x Oak Planks".
func (r Record) Summary() Summary {
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return Summary{
		Type:        r.Kind,
		Output:      fmt.Sprintf("%dx %s", r.ResultCount, r.ResultName),
		Ingredients: ingredients,
		Pattern:     r.Pattern,
	}
}

// Summaries formats every record in order.
func Summaries(records []Record) []Summary {
	out := make([]Summary, 0, len(records))
	for _, r := range records {
		out = append(out, r.Summary())
	}
	return out
}
