package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// PreferencesLocked returns true if the manager locked preferences or the deadline has passed
func PreferencesLocked(settings *db.Settings, now time.Time) bool {
	if settings == nil {
		return false
	}
	if settings.IsLocked {
		return true
	}
	return settings.Deadline != nil && now.After(*settings.Deadline)
}

// GetSettings fetches the round settings
func GetSettings(ctx context.Context, store db.SettingsStore, logger *zap.Logger) (*db.Settings, error) {
	logger.Debug("Fetching settings")

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	return settings, nil
}

// SetDeadline changes the preference submission deadline
func SetDeadline(ctx context.Context, store db.SettingsStore, logger *zap.Logger, deadline time.Time) (*db.Settings, error) {
	return updateSettings(ctx, store, logger, func(s *db.Settings) {
		d := deadline.UTC()
		s.Deadline = &d
	})
}

// LockPreferences blocks further non-manager preference edits
func LockPreferences(ctx context.Context, store db.SettingsStore, logger *zap.Logger) (*db.Settings, error) {
	return updateSettings(ctx, store, logger, func(s *db.Settings) {
		s.IsLocked = true
	})
}

// UnlockPreferences reopens submissions and pushes the deadline out by the configured number of days from now
func UnlockPreferences(ctx context.Context, store db.SettingsStore, cfg *config.Config, logger *zap.Logger, now time.Time) (*db.Settings, error) {
	return updateSettings(ctx, store, logger, func(s *db.Settings) {
		d := now.UTC().AddDate(0, 0, cfg.DeadlineExtensionDays)
		s.IsLocked = false
		s.Deadline = &d
	})
}

func updateSettings(ctx context.Context, store db.SettingsStore, logger *zap.Logger, apply func(*db.Settings)) (*db.Settings, error) {
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	apply(settings)

	logger.Debug("Updating settings",
		zap.Bool("is_locked", settings.IsLocked),
		zap.Timep("deadline", settings.Deadline))

	if err := store.UpdateSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	return settings, nil
}

// FormatDeadline renders a deadline for people, e.g. "Nov. 27, 2025 3:24 a.m. ET"
func FormatDeadline(deadline time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	local := deadline.In(loc)

	period := "a.m."
	if local.Hour() >= 12 {
		period = "p.m."
	}

	return fmt.Sprintf("%s %s %s", local.Format("Jan. 2, 2006 3:04"), period, zoneLabel(local))
}

// zoneLabel shortens US zones to their generic name (ET rather than EST/EDT)
func zoneLabel(t time.Time) string {
	switch t.Location().String() {
	case "America/New_York":
		return "ET"
	case "America/Chicago":
		return "CT"
	case "America/Denver":
		return "MT"
	case "America/Los_Angeles":
		return "PT"
	}
	name, _ := t.Zone()
	return name
}
