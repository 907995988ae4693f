package store

import (
	"context"
	"fmt"
)

// ReadRun retrieves a single run by token.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, token string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT token, task_name, target, seed, strategy, engine_version, created_at
		FROM runs
		WHERE token = ?
	`, token).Scan(
		&run.Token,
		&run.TaskName,
		&run.Target,
		&run.Seed,
		&run.Strategy,
		&run.EngineVersion,
		&run.CreatedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return run, nil
}

// ReadSketches returns all sketches for a run, ordered by ordinal.
// Ordinal order is the generation order, so a read-back batch can be
// compared element-wise against a regenerated one.
//
// Returns an empty slice (not nil) if no sketches exist for the token.
func (s *Store) ReadSketches(ctx context.Context, runToken string) ([]Sketch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, ordinal, fingerprint, predicted_cost, module_json
		FROM sketches
		WHERE run_token = ?
		ORDER BY ordinal ASC
	`, runToken)
	if err != nil {
		return nil, fmt.Errorf("query sketches: %w", err)
	}
	defer rows.Close()

	var sketches []Sketch
	for rows.Next() {
		var sk Sketch
		if err := rows.Scan(
			&sk.RunToken,
			&sk.Ordinal,
			&sk.Fingerprint,
			&sk.PredictedCost,
			&sk.ModuleJSON,
		); err != nil {
			return nil, fmt.Errorf("scan sketch: %w", err)
		}
		sketches = append(sketches, sk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sketches: %w", err)
	}

	if sketches == nil {
		sketches = []Sketch{}
	}

	return sketches, nil
}

// ListRuns returns all runs for a task name, newest first.
// An empty task name lists every run.
func (s *Store) ListRuns(ctx context.Context, taskName string) ([]Run, error) {
	query := `
		SELECT token, task_name, target, seed, strategy, engine_version, created_at
		FROM runs
		ORDER BY created_at DESC, token ASC
	`
	args := []any{}
	if taskName != "" {
		query = `
			SELECT token, task_name, target, seed, strategy, engine_version, created_at
			FROM runs
			WHERE task_name = ?
			ORDER BY created_at DESC, token ASC
		`
		args = append(args, taskName)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.Token,
			&run.TaskName,
			&run.Target,
			&run.Seed,
			&run.Strategy,
			&run.EngineVersion,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []Run{}
	}

	return runs, nil
}
