package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/recipekb/internal/normalize"
	"github.com/roach88/recipekb/internal/recipe"
)

// BuildInfo describes the ingestion run that produced the stored records.
type BuildInfo struct {
	RunID     string    `json:"run_id"`
	BuiltAt   time.Time `json:"built_at"`
	SourceDir string    `json:"source_dir"`
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
}

// Rebuild atomically replaces the stored records, skip log and build info.
//
// Records get ids 1..len(records) in slice order. info.Processed and
// info.Skipped are overwritten with len(records) and len(skips).
//
// The write lock is held for the whole transaction, so concurrent readers see
// either the previous build or this one. On error nothing is changed.
func (s *Store) Rebuild(ctx context.Context, records []recipe.Record, skips []normalize.Skip, info BuildInfo) error {
	if info.RunID == "" {
		return fmt.Errorf("rebuild: run id is required")
	}
	info.Processed = len(records)
	info.Skipped = len(skips)

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.handle()
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: rebuild: begin tx: %w", ErrUnavailable, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, dropSQL); err != nil {
		return fmt.Errorf("%w: rebuild: drop tables: %w", ErrUnavailable, err)
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%w: rebuild: create tables: %w", ErrUnavailable, err)
	}

	insertRecipe, err := tx.PrepareContext(ctx, `
		INSERT INTO recipes
		(id, result_item, result_name, result_count, recipe_kind, source, ingredients_json, pattern_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: rebuild: prepare insert: %w", ErrUnavailable, err)
	}
	defer insertRecipe.Close()

	for i, rec := range records {
		ingredientsJSON, err := marshalIngredients(rec.Ingredients)
		if err != nil {
			return fmt.Errorf("rebuild: record %d (%s): %w", i+1, rec.Source, err)
		}
		patternJSON, err := marshalPattern(rec.Pattern)
		if err != nil {
			return fmt.Errorf("rebuild: record %d (%s): %w", i+1, rec.Source, err)
		}

		_, err = insertRecipe.ExecContext(ctx,
			int64(i+1),
			rec.ResultItem,
			rec.ResultName,
			rec.ResultCount,
			rec.Kind,
			rec.Source,
			ingredientsJSON,
			patternJSON,
		)
		if err != nil {
			return fmt.Errorf("rebuild: insert record %d (%s): %w", i+1, rec.Source, err)
		}
	}

	for i, skip := range skips {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO skips (seq, source, reason, detail) VALUES (?, ?, ?, ?)
		`, int64(i+1), skip.Source, string(skip.Reason), skip.Detail)
		if err != nil {
			return fmt.Errorf("%w: rebuild: insert skip %s: %w", ErrUnavailable, skip.Source, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds (run_id, built_at, source_dir, processed, skipped)
		VALUES (?, ?, ?, ?, ?)
	`,
		info.RunID,
		info.BuiltAt.UTC().Format(time.RFC3339Nano),
		info.SourceDir,
		info.Processed,
		info.Skipped,
	)
	if err != nil {
		return fmt.Errorf("%w: rebuild: insert build: %w", ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: rebuild: commit: %w", ErrUnavailable, err)
	}

	s.gen.Add(1)
	return nil
}
