package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// GetLatestRun retrieves the most recent allocation run and its assignments
func (d *DB) GetLatestRun(ctx context.Context) (*db.AllocationRun, []db.Assignment, error) {
	var run db.AllocationRun
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, created_at, seed, warnings
		FROM allocation_run
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.CreatedAt, &run.Seed, &run.Warnings)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query latest allocation run: %w", err)
	}

	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, shift_id, position, phase, source, rank
		FROM assignment
		WHERE run_id = $1
		ORDER BY employee_id, position
	`, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []db.Assignment{}
	for rows.Next() {
		a := db.Assignment{RunID: run.ID}
		var rank *int32
		var shiftID, position, phase int32
		if err := rows.Scan(&a.EmployeeID, &shiftID, &position, &phase, &a.Source, &rank); err != nil {
			return nil, nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.ShiftID = int(shiftID)
		a.Position = int(position)
		a.Phase = int(phase)
		if rank != nil {
			a.Rank = int(*rank)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	if run.Warnings == nil {
		run.Warnings = []string{}
	}

	return &run, assignments, nil
}

// SaveAllocationRun inserts the run, its assignments and the settings update in one transaction
func (d *DB) SaveAllocationRun(ctx context.Context, run *db.AllocationRun, assignments []db.Assignment, settings *db.Settings) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	warnings := run.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO allocation_run (id, created_at, seed, warnings)
		VALUES ($1, $2, $3, $4)
	`, run.ID, run.CreatedAt.UTC(), run.Seed, warnings)
	if err != nil {
		return fmt.Errorf("failed to insert allocation run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, a := range assignments {
		var rank *int32
		if a.Rank > 0 {
			r := int32(a.Rank)
			rank = &r
		}
		batch.Queue(`
			INSERT INTO assignment (run_id, employee_id, shift_id, position, phase, source, rank)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, run.ID, a.EmployeeID, a.ShiftID, a.Position, a.Phase, a.Source, rank)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert assignments: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE settings SET deadline = $1, is_locked = $2, allocated_at = $3 WHERE id = 1
	`, utcOrNil(settings.Deadline), settings.IsLocked, utcOrNil(settings.AllocatedAt))
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
