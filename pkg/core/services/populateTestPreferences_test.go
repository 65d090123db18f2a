package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/pkg/core/allocator"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

func TestPopulateTestPreferences(t *testing.T) {
	store := &mockStore{
		employees: append(makeEmployees("alice", "bob"), db.Employee{ID: "boss", IsManager: true}),
	}
	seed := int64(42)

	preferences, err := PopulateTestPreferences(context.Background(), store, testConfig(), zap.NewNop(), &seed)
	require.NoError(t, err)

	require.Len(t, preferences, 2)
	assert.Len(t, store.preferences, 2)

	for _, p := range preferences {
		assert.NotEqual(t, "boss", p.EmployeeID)
		assert.True(t, allocator.IsComplete(p.PreferenceSet(), 12, 6), p.EmployeeID)
		assert.ElementsMatch(t, []int{1, 2, 3}, []int{
			p.CategoryRanks["saturday"],
			p.CategoryRanks["sunday_morning"],
			p.CategoryRanks["sunday_evening"],
		})

		submission := PreferenceSubmission{Top: p.Top, Bottom: p.Bottom, CategoryRanks: p.CategoryRanks}
		assert.NoError(t, ValidateSubmission(submission, 12, 6, 60))
	}
}

func TestPopulateTestPreferences_SeedIsReproducible(t *testing.T) {
	seed := int64(7)
	run := func() []db.Preference {
		store := &mockStore{employees: makeEmployees("alice", "bob", "carol")}
		preferences, err := PopulateTestPreferences(context.Background(), store, testConfig(), zap.NewNop(), &seed)
		require.NoError(t, err)
		return preferences
	}

	first, second := run(), run()
	for i := range first {
		assert.Equal(t, first[i].Top, second[i].Top)
		assert.Equal(t, first[i].Bottom, second[i].Bottom)
		assert.Equal(t, first[i].CategoryRanks, second[i].CategoryRanks)
	}
}

func TestPopulateTestPreferences_CatalogTooSmall(t *testing.T) {
	cfg := testConfig()
	cfg.Weekends = 5

	_, err := PopulateTestPreferences(context.Background(), &mockStore{}, cfg, zap.NewNop(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "catalog has 15 shifts but complete preferences need 18")
}
