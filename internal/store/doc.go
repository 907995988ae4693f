// Package store provides durable storage for tuning runs and their
// generated sketches.
//
// Backed by SQLite with WAL mode and a single write connection. Each run
// records the task name, root seed, strategy, and engine version; each
// sketch records its position in the batch, its content-addressed
// fingerprint, its predicted cost, and the full module for inspection.
//
// Writes are idempotent: re-inserting an existing run or sketch is a
// silent no-op (ON CONFLICT DO NOTHING), so an interrupted run can be
// re-persisted without duplicating rows.
//
// The stored fingerprints are the determinism audit trail: ReplayCheck
// compares a regenerated batch against what was recorded, which catches
// both engine regressions and seed mismatches.
package store
