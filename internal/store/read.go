package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/recipekb/internal/normalize"
	"github.com/roach88/recipekb/internal/queryir"
	"github.com/roach88/recipekb/internal/querysql"
	"github.com/roach88/recipekb/internal/recipe"
)

// Select runs a compiled queryir query and returns the matching records in id
// order. Returns an empty slice (not nil) when nothing matches.
func (s *Store) Select(ctx context.Context, q queryir.Select) ([]recipe.Record, error) {
	query, params, err := querysql.NewSQLCompiler().Compile(q)
	if err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.handle()
	if err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: query recipes: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	records := []recipe.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate recipes: %w", ErrUnavailable, err)
	}

	return records, nil
}

// CraftCandidates returns every record that requires at least one ingredient.
func (s *Store) CraftCandidates(ctx context.Context) ([]recipe.Record, error) {
	return s.Select(ctx, queryir.Select{Filter: queryir.NonEmptyIngredients{}})
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.handle()
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count recipes: %w", ErrUnavailable, err)
	}
	return count, nil
}

// LatestBuild returns the metadata of the last rebuild. ok is false when the
// store has never been built.
func (s *Store) LatestBuild(ctx context.Context) (info BuildInfo, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.handle()
	if err != nil {
		return BuildInfo{}, false, fmt.Errorf("read build: %w", err)
	}

	var builtAt string
	err = db.QueryRowContext(ctx, `
		SELECT run_id, built_at, source_dir, processed, skipped
		FROM builds
		LIMIT 1
	`).Scan(&info.RunID, &builtAt, &info.SourceDir, &info.Processed, &info.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildInfo{}, false, nil
	}
	if err != nil {
		return BuildInfo{}, false, fmt.Errorf("%w: read build: %w", ErrUnavailable, err)
	}

	info.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt)
	if err != nil {
		return BuildInfo{}, false, fmt.Errorf("read build: parse built_at: %w", err)
	}
	return info, true, nil
}

// Skips returns the skip log of the last rebuild in ingestion order.
func (s *Store) Skips(ctx context.Context) ([]normalize.Skip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.handle()
	if err != nil {
		return nil, fmt.Errorf("read skips: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT source, reason, detail FROM skips ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query skips: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	skips := []normalize.Skip{}
	for rows.Next() {
		var skip normalize.Skip
		var reason string
		if err := rows.Scan(&skip.Source, &reason, &skip.Detail); err != nil {
			return nil, fmt.Errorf("%w: scan skip: %w", ErrUnavailable, err)
		}
		skip.Reason = normalize.Reason(reason)
		skips = append(skips, skip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate skips: %w", ErrUnavailable, err)
	}
	return skips, nil
}

// scanRecord scans one row selected with querysql.Columns.
func scanRecord(rows *sql.Rows) (recipe.Record, error) {
	var rec recipe.Record
	var ingredientsJSON string
	var patternJSON sql.NullString

	err := rows.Scan(
		&rec.ID,
		&rec.ResultItem,
		&rec.ResultName,
		&rec.ResultCount,
		&rec.Kind,
		&rec.Source,
		&ingredientsJSON,
		&patternJSON,
	)
	if err != nil {
		return recipe.Record{}, fmt.Errorf("%w: scan recipe: %w", ErrUnavailable, err)
	}

	rec.Ingredients, err = unmarshalIngredients(ingredientsJSON)
	if err != nil {
		return recipe.Record{}, fmt.Errorf("recipe %d: %w", rec.ID, err)
	}
	rec.Pattern, err = unmarshalPattern(patternJSON)
	if err != nil {
		return recipe.Record{}, fmt.Errorf("recipe %d: %w", rec.ID, err)
	}

	return rec, nil
}
