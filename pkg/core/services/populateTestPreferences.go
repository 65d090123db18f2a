package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/core/model"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// PopulateTestPreferencesStore defines the database operations needed to populate test preferences
type PopulateTestPreferencesStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	UpsertPreferences(ctx context.Context, preferences []db.Preference) error
}

// PopulateTestPreferences gives every non-manager employee a random complete
// preference set. For testing only: it overwrites submitted preferences.
// A nil seed draws from an unseeded source.
func PopulateTestPreferences(
	ctx context.Context,
	store PopulateTestPreferencesStore,
	cfg *config.Config,
	logger *zap.Logger,
	seed *int64,
) ([]db.Preference, error) {
	c, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build shift catalog: %w", err)
	}

	if needed := cfg.TopCount + cfg.BottomCount; c.Len() < needed {
		return nil, fmt.Errorf("catalog has %d shifts but complete preferences need %d", c.Len(), needed)
	}

	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	var r *rand.Rand
	if seed != nil {
		r = rand.New(rand.NewPCG(uint64(*seed), uint64(*seed)))
	} else {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	now := time.Now().UTC()
	preferences := []db.Preference{}
	for _, employeeID := range allocatableRoster(employees) {
		perm := r.Perm(c.Len())
		ranks := r.Perm(len(model.Categories))

		categoryRanks := make(map[string]int, len(model.Categories))
		for i, category := range model.Categories {
			categoryRanks[string(category)] = ranks[i] + 1
		}

		preferences = append(preferences, db.Preference{
			EmployeeID:    employeeID,
			Top:           perm[:cfg.TopCount],
			Bottom:        perm[cfg.TopCount : cfg.TopCount+cfg.BottomCount],
			CategoryRanks: categoryRanks,
			SubmittedAt:   now,
		})
	}

	logger.Debug("Generated test preferences", zap.Int("count", len(preferences)))

	if err := store.UpsertPreferences(ctx, preferences); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	logger.Info("Populated test preferences", zap.Int("count", len(preferences)))

	return preferences, nil
}
