// Package store provides SQLite-backed storage for normalized recipe records.
//
// The store holds the result of exactly one ingestion run:
//   - recipes: one row per record, ingredients and pattern as JSON TEXT
//   - skips: the units the run dropped and why
//   - builds: metadata of the run (run id, time, source directory, counts)
//
// # Rebuild Semantics
//
// Rebuild drops and recreates all three tables and inserts the new contents
// inside a single transaction while holding the write lock. Readers see either
// the previous build or the new one, never a mix. If any step fails the
// transaction rolls back and the previous build stays in place.
//
// # Deterministic Reads
//
// Every read is ordered by record id. Ids are assigned 1..n in the order the
// records were handed to Rebuild, so the same input yields the same ids.
//
// # Database Configuration
//
//   - WAL mode: readers are not blocked by a rebuild in progress
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Storage failures are wrapped with ErrUnavailable.
package store
