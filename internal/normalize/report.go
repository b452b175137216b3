package normalize

import (
	"fmt"

	"github.com/roach88/recipekb/internal/recipe"
)

// Reason classifies why a unit was not turned into a record.
type Reason string

const (
	// SkipUnparseable: the unit could not be decoded into an object.
	SkipUnparseable Reason = "unparseable source unit"

	// SkipNoResult: no result id could be resolved.
	SkipNoResult Reason = "no result id found"

	// SkipNoIngredients: the multiset is empty and the kind requires ingredients.
	SkipNoIngredients Reason = "no ingredients found"

	// SkipBadCount: the declared result count is not a positive integer.
	SkipBadCount Reason = "invalid result count"

	// SkipBadPattern: the pattern is not a list of strings.
	SkipBadPattern Reason = "malformed pattern"
)

// Skip records one dropped unit.
type Skip struct {
	Source string `json:"source"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

func (s Skip) String() string {
	if s.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", s.Source, s.Reason, s.Detail)
	}
	return fmt.Sprintf("%s: %s", s.Source, s.Reason)
}

// Unit is one decoded recipe description. Err is set when decoding failed, in
// which case Data is nil.
type Unit struct {
	Source string
	Data   map[string]any
	Err    error
}

// Report summarizes a normalization batch.
type Report struct {
	Processed int    `json:"processed"`
	Skips     []Skip `json:"skips"`
}

// Total returns the number of units seen.
func (r Report) Total() int {
	return r.Processed + len(r.Skips)
}

// CountByReason groups skips by reason.
func (r Report) CountByReason() map[Reason]int {
	out := make(map[Reason]int)
	for _, s := range r.Skips {
		out[s.Reason]++
	}
	return out
}

// Run normalizes units in order. A bad unit is recorded in the report and
// never stops the batch.
func (n *Normalizer) Run(units []Unit) ([]recipe.Record, Report) {
	records := make([]recipe.Record, 0, len(units))
	report := Report{Skips: []Skip{}}

	for _, u := range units {
		if u.Err != nil {
			report.Skips = append(report.Skips, Skip{
				Source: u.Source,
				Reason: SkipUnparseable,
				Detail: u.Err.Error(),
			})
			continue
		}
		rec, skip := n.Normalize(u.Data, u.Source)
		if skip != nil {
			report.Skips = append(report.Skips, *skip)
			continue
		}
		records = append(records, rec)
		report.Processed++
	}

	return records, report
}
