package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// PreferenceSubmission is what an employee submits: their ordered most-wanted
// shifts, their least-wanted shifts and a ranking of the shift categories
type PreferenceSubmission struct {
	Top           []int          `json:"top" validate:"required,unique,dive,min=0"`
	Bottom        []int          `json:"bottom" validate:"required,unique,dive,min=0"`
	CategoryRanks map[string]int `json:"categoryRanks" validate:"omitempty,dive,keys,oneof=saturday sunday_morning sunday_evening,endkeys,min=1,max=3"`
}

// SubmitPreferencesStore defines the database operations needed to submit preferences
type SubmitPreferencesStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetSettings(ctx context.Context) (*db.Settings, error)
	UpsertPreferences(ctx context.Context, preferences []db.Preference) error
}

// SubmitPreferences validates and stores an employee's preferences.
// Submissions after the lock or deadline are rejected unless override is set
// (manager edits).
func SubmitPreferences(
	ctx context.Context,
	store SubmitPreferencesStore,
	cfg *config.Config,
	logger *zap.Logger,
	employeeID string,
	submission PreferenceSubmission,
	now time.Time,
	override bool,
) (*db.Preference, error) {
	logger.Debug("Submitting preferences",
		zap.String("employee_id", employeeID),
		zap.Int("top", len(submission.Top)),
		zap.Int("bottom", len(submission.Bottom)),
		zap.Bool("override", override))

	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	if !slices.ContainsFunc(employees, func(e db.Employee) bool { return e.ID == employeeID }) {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	if PreferencesLocked(settings, now) && !override {
		return nil, ErrPreferencesLocked
	}

	c, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build shift catalog: %w", err)
	}

	if err := ValidateSubmission(submission, cfg.TopCount, cfg.BottomCount, c.Len()); err != nil {
		return nil, err
	}

	ranks := submission.CategoryRanks
	if ranks == nil {
		ranks = map[string]int{}
	}

	preference := db.Preference{
		EmployeeID:    employeeID,
		Top:           slices.Clone(submission.Top),
		Bottom:        slices.Clone(submission.Bottom),
		CategoryRanks: ranks,
		SubmittedAt:   now.UTC(),
	}

	if err := store.UpsertPreferences(ctx, []db.Preference{preference}); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	logger.Info("Preferences saved", zap.String("employee_id", employeeID))

	return &preference, nil
}

// ValidateSubmission checks list sizes, uniqueness, shift IDs against the
// catalog size, disjointness of the lists and the category ranking keys.
// Errors wrap ErrInvalidPreferences.
func ValidateSubmission(submission PreferenceSubmission, topCount, bottomCount, shiftCount int) error {
	if len(submission.Top) != topCount {
		return fmt.Errorf("%w: must select exactly %d top preferences", ErrInvalidPreferences, topCount)
	}
	if len(submission.Bottom) != bottomCount {
		return fmt.Errorf("%w: must select exactly %d least wanted shifts", ErrInvalidPreferences, bottomCount)
	}

	if err := validate.Struct(submission); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}

	for _, id := range slices.Concat(submission.Top, submission.Bottom) {
		if id >= shiftCount {
			return fmt.Errorf("%w: shift %d does not exist", ErrInvalidPreferences, id)
		}
	}

	for _, id := range submission.Bottom {
		if slices.Contains(submission.Top, id) {
			return fmt.Errorf("%w: shift %d is in both lists", ErrInvalidPreferences, id)
		}
	}

	return nil
}

// ListPreferences returns every stored preference set
func ListPreferences(ctx context.Context, store db.PreferenceStore, logger *zap.Logger) ([]db.Preference, error) {
	preferences, err := store.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}

	logger.Debug("Fetched preferences", zap.Int("count", len(preferences)))

	return preferences, nil
}
