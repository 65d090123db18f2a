package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// GetPreferences retrieves every stored preference set
func (d *DB) GetPreferences(ctx context.Context) ([]db.Preference, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, top_shifts, bottom_shifts, category_ranks, submitted_at
		FROM preference
		ORDER BY employee_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	preferences := []db.Preference{}
	for rows.Next() {
		var p db.Preference
		var top, bottom []int32
		if err := rows.Scan(&p.EmployeeID, &top, &bottom, &p.CategoryRanks, &p.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		p.Top = toInts(top)
		p.Bottom = toInts(bottom)
		if p.CategoryRanks == nil {
			p.CategoryRanks = map[string]int{}
		}
		preferences = append(preferences, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}

	return preferences, nil
}

// UpsertPreferences inserts or replaces preference sets in a single transaction
func (d *DB) UpsertPreferences(ctx context.Context, preferences []db.Preference) error {
	if len(preferences) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range preferences {
		ranks := p.CategoryRanks
		if ranks == nil {
			ranks = map[string]int{}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO preference (employee_id, top_shifts, bottom_shifts, category_ranks, submitted_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (employee_id) DO UPDATE SET
				top_shifts = EXCLUDED.top_shifts,
				bottom_shifts = EXCLUDED.bottom_shifts,
				category_ranks = EXCLUDED.category_ranks,
				submitted_at = EXCLUDED.submitted_at
		`, p.EmployeeID, toInt32s(p.Top), toInt32s(p.Bottom), ranks, p.SubmittedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to upsert preference for %s: %w", p.EmployeeID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func toInts(values []int32) []int {
	ints := make([]int, len(values))
	for i, v := range values {
		ints[i] = int(v)
	}
	return ints
}

func toInt32s(values []int) []int32 {
	ints := make([]int32, len(values))
	for i, v := range values {
		ints[i] = int32(v)
	}
	return ints
}
