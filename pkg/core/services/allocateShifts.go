package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/core/allocator"
	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
	"github.com/jakechorley/weekend-shifts/pkg/core/model"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// AllocateShiftsStore defines the database operations needed for allocation
type AllocateShiftsStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetPreferences(ctx context.Context) ([]db.Preference, error)
	GetSettings(ctx context.Context) (*db.Settings, error)
	SaveAllocationRun(ctx context.Context, run *db.AllocationRun, assignments []db.Assignment, settings *db.Settings) error
}

// AllocateOptions controls a single allocation
type AllocateOptions struct {
	// DryRun runs the allocation without saving anything
	DryRun bool

	// Force allows re-allocating a committed round and committing an outcome
	// that failed validation
	Force bool

	// Rand drives the non-seeded draws (nil means unseeded)
	Rand *rand.Rand

	// Now is the commit time (zero means time.Now())
	Now time.Time
}

// AllocateResult contains the allocation outcome and what was done with it
type AllocateResult struct {
	RunID      string
	Committed  bool
	Catalog    *catalog.Catalog
	Outcome    *allocator.AllocationOutcome
	Violations []allocator.Violation
	Summary    allocator.Summary
}

// AllocateShifts runs the allocator over the non-manager roster and commits the result.
// A committed result is stored with its assignments and locks preferences in one transaction.
func AllocateShifts(
	ctx context.Context,
	store AllocateShiftsStore,
	cfg *config.Config,
	logger *zap.Logger,
	opts AllocateOptions,
) (*AllocateResult, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	logger.Debug("Starting allocateShifts",
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("force", opts.Force))

	// Step 1: Refuse to overwrite a committed round
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	if settings.AllocatedAt != nil && !opts.Force && !opts.DryRun {
		return nil, fmt.Errorf("%w at %s (use force to re-allocate)", ErrAlreadyAllocated, settings.AllocatedAt.UTC().Format(time.RFC3339))
	}

	// Step 2: Build the catalog
	c, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build shift catalog: %w", err)
	}
	logger.Debug("Built shift catalog", zap.Int("shifts", c.Len()), zap.Int("weekends", c.Weekends()))

	// Step 3: Load roster and preferences
	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	roster := allocatableRoster(employees)

	stored, err := store.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}
	preferences := make(map[string]model.PreferenceSet, len(stored))
	for _, p := range stored {
		preferences[p.EmployeeID] = p.PreferenceSet()
	}

	logger.Debug("Loaded allocation input",
		zap.Int("employees", len(employees)),
		zap.Int("roster", len(roster)),
		zap.Int("preferences", len(preferences)))

	// Step 4: Allocate
	seed := allocator.DefaultSeed
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	outcome := allocator.Allocate(allocator.AllocationConfig{
		Roster:      roster,
		Preferences: preferences,
		Catalog:     c,
		TopCount:    cfg.TopCount,
		BottomCount: cfg.BottomCount,
		Seed:        &seed,
		Rand:        opts.Rand,
		Logger:      logger,
	})

	result := &AllocateResult{
		Catalog:    c,
		Outcome:    outcome,
		Violations: allocator.ValidateOutcome(c, outcome),
		Summary:    allocator.Summarize(c, preferences, outcome),
	}

	for _, warning := range outcome.Warnings {
		logger.Warn("Allocation warning", zap.String("warning", warning))
	}
	for _, v := range result.Violations {
		logger.Error("Allocation invariant violated", zap.String("violation", v.String()))
	}

	logger.Info("Allocation complete",
		zap.Int("fully_assigned", result.Summary.FullyAssigned),
		zap.Int("employees", result.Summary.TotalEmployees),
		zap.Int("warnings", len(outcome.Warnings)),
		zap.Int("violations", len(result.Violations)))

	if opts.DryRun {
		logger.Info("Dry run, nothing saved")
		return result, nil
	}

	if len(result.Violations) > 0 && !opts.Force {
		return result, fmt.Errorf("%w: %d violations", ErrInvalidAllocation, len(result.Violations))
	}

	// Step 5: Commit the run and lock preferences
	run := &db.AllocationRun{
		ID:        uuid.New().String(),
		CreatedAt: now.UTC(),
		Seed:      seed,
		Warnings:  outcome.Warnings,
	}

	allocatedAt := now.UTC()
	settings.IsLocked = true
	settings.AllocatedAt = &allocatedAt

	assignments := assignmentRecords(run.ID, outcome)
	if err := store.SaveAllocationRun(ctx, run, assignments, settings); err != nil {
		return result, fmt.Errorf("failed to save allocation run: %w", err)
	}

	logger.Info("Allocation saved",
		zap.String("run_id", run.ID),
		zap.Int("assignments", len(assignments)))

	result.RunID = run.ID
	result.Committed = true

	return result, nil
}

// assignmentRecords flattens the picks of an outcome into database records
func assignmentRecords(runID string, outcome *allocator.AllocationOutcome) []db.Assignment {
	positions := make(map[string]int)
	records := make([]db.Assignment, 0, len(outcome.Picks))
	for _, pick := range outcome.Picks {
		records = append(records, db.Assignment{
			RunID:      runID,
			EmployeeID: pick.EmployeeID,
			ShiftID:    pick.ShiftID,
			Position:   positions[pick.EmployeeID],
			Phase:      pick.Phase,
			Source:     string(pick.Source),
			Rank:       pick.Rank,
		})
		positions[pick.EmployeeID]++
	}
	return records
}
