package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/roach88/recipekb/internal/queryir"
	"github.com/roach88/recipekb/internal/recipe"
)

// DefaultLimit caps FindByCriteria results when the caller sets no limit.
const DefaultLimit = 20

// Source is the read side of the recipe store.
// Implemented by *store.Store.
type Source interface {
	Select(ctx context.Context, q queryir.Select) ([]recipe.Record, error)
	CraftCandidates(ctx context.Context) ([]recipe.Record, error)

	// Generation changes whenever the stored records are replaced.
	Generation() uint64
}

// Engine runs recipe queries against a Source.
type Engine struct {
	src          Source
	namespace    string
	tags         TagMatcher
	defaultLimit int
	logger       *slog.Logger

	// Craft candidates of the last seen generation.
	mu         sync.Mutex
	candidates []candidate
	cachedGen  uint64
	loaded     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithNamespace sets the namespace prepended to ids given without one.
// Default: recipe.DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(e *Engine) {
		if ns != "" {
			e.namespace = ns
		}
	}
}

// WithTagMatcher replaces the default SubstringTagMatcher.
func WithTagMatcher(m TagMatcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.tags = m
		}
	}
}

// WithDefaultLimit sets the FindByCriteria limit used when Criteria.Limit is
// zero. Default: 20 (DefaultLimit).
func WithDefaultLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultLimit = n
		}
	}
}

// WithLogger sets the logger for debug output. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine over src.
func New(src Source, opts ...Option) *Engine {
	e := &Engine{
		src:          src,
		namespace:    recipe.DefaultNamespace,
		tags:         SubstringTagMatcher{},
		defaultLimit: DefaultLimit,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Namespace returns the namespace used to qualify caller input.
func (e *Engine) Namespace() string {
	return e.namespace
}

// FindByResultID returns every recipe producing id. A bare id such as
// "chest" is looked up as "<namespace>:chest".
func (e *Engine) FindByResultID(ctx context.Context, id string) ([]recipe.Record, error) {
	defer observe("result", time.Now())

	id = recipe.Qualify(id, e.namespace)
	if id == "" {
		return []recipe.Record{}, nil
	}
	return e.run(ctx, "find by result", queryir.Select{Filter: queryir.ResultEquals{Item: id}})
}

// FindByName returns every recipe whose display name contains substring,
// ignoring case.
func (e *Engine) FindByName(ctx context.Context, substring string) ([]recipe.Record, error) {
	defer observe("name", time.Now())

	return e.run(ctx, "find by name", queryir.Select{
		Filter: queryir.NameContains{Substring: strings.TrimSpace(substring)},
	})
}

// FindByIngredientExact returns every recipe whose multiset contains id
// itself. Tags are not expanded: "#minecraft:planks" only finds recipes that
// ask for the tag.
func (e *Engine) FindByIngredientExact(ctx context.Context, id string) ([]recipe.Record, error) {
	defer observe("ingredient", time.Now())

	id = recipe.Qualify(id, e.namespace)
	if id == "" {
		return []recipe.Record{}, nil
	}
	return e.run(ctx, "find by ingredient", queryir.Select{Filter: queryir.HasIngredient{ID: id}})
}

// Criteria is a conjunctive recipe filter. Zero fields are not applied.
type Criteria struct {
	// Name is a case-insensitive display name substring.
	Name string

	// Ingredients must each occur at least once in the multiset.
	Ingredients []string

	// Kind is the exact recipe kind.
	Kind string

	// Limit caps the results. Zero uses the engine default.
	Limit int

	// LooseIngredients matches ingredient ids with LIKE against the stored
	// multiset text instead of as whole tokens. Matching then ignores ASCII
	// case and "_" matches any character.
	LooseIngredients bool
}

// FindByCriteria returns the recipes matching every supplied criterion, in
// store order, capped at the limit.
func (e *Engine) FindByCriteria(ctx context.Context, c Criteria) ([]recipe.Record, error) {
	defer observe("criteria", time.Now())

	if c.Limit < 0 {
		return nil, fmt.Errorf("find by criteria: %w: negative limit %d", queryir.ErrInvalidQuery, c.Limit)
	}
	limit := c.Limit
	if limit == 0 {
		limit = e.defaultLimit
	}

	var preds []queryir.Predicate
	if name := strings.TrimSpace(c.Name); name != "" {
		preds = append(preds, queryir.NameContains{Substring: name})
	}
	for _, id := range c.Ingredients {
		id = recipe.Qualify(id, e.namespace)
		if id == "" {
			continue
		}
		preds = append(preds, queryir.HasIngredient{ID: id, Loose: c.LooseIngredients})
	}
	if kind := e.qualifyKind(c.Kind); kind != "" {
		preds = append(preds, queryir.KindEquals{Kind: kind})
	}

	return e.run(ctx, "find by criteria", queryir.Select{
		Filter: queryir.AllOf(preds...),
		Limit:  limit,
	})
}

// FindBySource returns the recipes whose source unit name contains term.
// A name where "from" comes before term is left out, so "stone_bricks" finds
// "stone_bricks_from_stone_stonecutting" but not
// "stone_from_stone_bricks_stonecutting".
func (e *Engine) FindBySource(ctx context.Context, term string) ([]recipe.Record, error) {
	defer observe("source", time.Now())

	term = strings.TrimSpace(term)
	if term == "" {
		return []recipe.Record{}, nil
	}
	records, err := e.run(ctx, "find by source", queryir.Select{Filter: queryir.SourceContains{Substring: term}})
	if err != nil {
		return nil, err
	}

	kept := records[:0]
	for _, r := range records {
		if from := strings.Index(r.Source, "from"); from >= 0 && from < strings.Index(r.Source, term) {
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// qualifyKind qualifies a caller-supplied kind the way stored kinds are.
func (e *Engine) qualifyKind(kind string) string {
	if strings.TrimSpace(kind) == recipe.UnknownKind {
		return recipe.UnknownKind
	}
	return recipe.Qualify(kind, e.namespace)
}

func (e *Engine) run(ctx context.Context, op string, q queryir.Select) ([]recipe.Record, error) {
	records, err := e.src.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.logger.Debug("query", "op", op, "results", len(records))
	return records, nil
}
