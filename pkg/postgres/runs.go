package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/duty-roster/pkg/db"
)

// InsertSolveRun stores a run and its rows in one transaction
func (d *DB) InsertSolveRun(ctx context.Context, run *db.SolveRun, records db.RunRecords) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	warnings := run.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO solve_run (id, month, strategy, status, seed, nodes, hours_spread, warnings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.Month, run.Strategy, run.Status, int64(run.Seed), run.Nodes, run.HoursSpread, warnings, run.CreatedAt)

	for _, a := range records.Assignments {
		batch.Queue(`
			INSERT INTO assignment (id, run_id, shift_date, person_id, role, shift_code, hours, pinned)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
		`, a.ID, run.ID, a.Date, a.PersonID, a.Role, a.ShiftCode, a.Hours, a.Pinned)
	}
	for _, is := range records.Issues {
		batch.Queue(`
			INSERT INTO issue (id, run_id, shift_date, shift_id, missing, reason)
			VALUES ($1, $2, $3::date, $4, $5, $6)
		`, is.ID, run.ID, is.Date, is.ShiftID, is.Missing, is.Reason)
	}
	for _, o := range records.Overrides {
		batch.Queue(`
			INSERT INTO override (id, run_id, shift_date, person_id, role, shift_code, reason)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		`, o.ID, run.ID, o.Date, o.PersonID, o.Role, o.ShiftCode, o.Reason)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert solve run %s: %w", run.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSolveRuns retrieves all runs, newest first
func (d *DB) GetSolveRuns(ctx context.Context) ([]db.SolveRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, month, strategy, status, seed, nodes, hours_spread, warnings, created_at
		FROM solve_run
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query solve runs: %w", err)
	}
	defer rows.Close()

	var runs []db.SolveRun
	for rows.Next() {
		var r db.SolveRun
		var seed int64
		if err := rows.Scan(&r.ID, &r.Month, &r.Strategy, &r.Status, &seed, &r.Nodes, &r.HoursSpread, &r.Warnings, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan solve run: %w", err)
		}
		r.Seed = uint64(seed)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating solve runs: %w", err)
	}

	return runs, nil
}

// GetAssignments retrieves the assignments of a run
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.AssignmentRow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, run_id::text, shift_date::text, person_id, role, shift_code, hours, pinned
		FROM assignment
		WHERE run_id = $1
		ORDER BY shift_date, role, shift_code, person_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}

	assignments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.AssignmentRow, error) {
		var a db.AssignmentRow
		err := row.Scan(&a.ID, &a.RunID, &a.Date, &a.PersonID, &a.Role, &a.ShiftCode, &a.Hours, &a.Pinned)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignments: %w", err)
	}

	return assignments, nil
}

// GetIssues retrieves the unmet demand of a run
func (d *DB) GetIssues(ctx context.Context, runID string) ([]db.IssueRow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, run_id::text, shift_date::text, shift_id, missing, reason
		FROM issue
		WHERE run_id = $1
		ORDER BY shift_date, shift_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}

	issues, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.IssueRow, error) {
		var is db.IssueRow
		err := row.Scan(&is.ID, &is.RunID, &is.Date, &is.ShiftID, &is.Missing, &is.Reason)
		return is, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan issues: %w", err)
	}

	return issues, nil
}

// GetOverrides retrieves the soft-rule relaxations of a run
func (d *DB) GetOverrides(ctx context.Context, runID string) ([]db.OverrideRow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, run_id::text, shift_date::text, person_id, role, shift_code, reason
		FROM override
		WHERE run_id = $1
		ORDER BY shift_date, person_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}

	overrides, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.OverrideRow, error) {
		var o db.OverrideRow
		err := row.Scan(&o.ID, &o.RunID, &o.Date, &o.PersonID, &o.Role, &o.ShiftCode, &o.Reason)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan overrides: %w", err)
	}

	return overrides, nil
}
