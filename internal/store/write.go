package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run record into the store.
// Uses ON CONFLICT(token) DO NOTHING for idempotency - duplicate tokens are
// silently ignored. Other constraint violations (e.g., NOT NULL) still
// return errors.
//
// CreatedAt is assigned by the database; the field on the argument is
// ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(token, task_name, target, seed, strategy, engine_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.TaskName,
		run.Target,
		run.Seed,
		run.Strategy,
		run.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}

// WriteSketch inserts a sketch record into the store.
// Uses ON CONFLICT DO NOTHING for idempotency - re-writing the same
// (run_token, ordinal) slot is silently ignored, so an interrupted
// persistence pass can be re-run from the start.
//
// Note: The run referenced by RunToken must exist (foreign key constraint).
func (s *Store) WriteSketch(ctx context.Context, sk Sketch) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sketches
		(run_token, ordinal, fingerprint, predicted_cost, module_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_token, ordinal) DO NOTHING
	`,
		sk.RunToken,
		sk.Ordinal,
		sk.Fingerprint,
		sk.PredictedCost,
		sk.ModuleJSON,
	)
	if err != nil {
		return fmt.Errorf("write sketch: %w", err)
	}

	return nil
}

// WriteBatch atomically writes a run and its sketches in one transaction.
// Either the whole batch lands or none of it does.
func (s *Store) WriteBatch(ctx context.Context, run Run, sketches []Sketch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(token, task_name, target, seed, strategy, engine_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.TaskName,
		run.Target,
		run.Seed,
		run.Strategy,
		run.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write batch: run: %w", err)
	}

	for _, sk := range sketches {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sketches
			(run_token, ordinal, fingerprint, predicted_cost, module_json)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(run_token, ordinal) DO NOTHING
		`,
			sk.RunToken,
			sk.Ordinal,
			sk.Fingerprint,
			sk.PredictedCost,
			sk.ModuleJSON,
		)
		if err != nil {
			return fmt.Errorf("write batch: sketch %d: %w", sk.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write batch: commit: %w", err)
	}

	return nil
}
