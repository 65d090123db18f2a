package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// GetSettings retrieves the round settings row
func (d *DB) GetSettings(ctx context.Context) (*db.Settings, error) {
	var s db.Settings
	err := d.pool.QueryRow(ctx, `
		SELECT deadline, is_locked, allocated_at
		FROM settings
		WHERE id = 1
	`).Scan(&s.Deadline, &s.IsLocked, &s.AllocatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	return &s, nil
}

// UpdateSettings overwrites the round settings row
func (d *DB) UpdateSettings(ctx context.Context, settings *db.Settings) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE settings SET deadline = $1, is_locked = $2, allocated_at = $3 WHERE id = 1
	`, utcOrNil(settings.Deadline), settings.IsLocked, utcOrNil(settings.AllocatedAt))
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
