package allocator

import (
	"slices"

	"github.com/jakechorley/weekend-shifts/pkg/core/model"
)

// IsComplete returns true if prefs has exactly topCount most-wanted shifts,
// exactly bottomCount least-wanted shifts, and the two lists are disjoint.
// Anything else routes the employee to random assignment.
func IsComplete(prefs model.PreferenceSet, topCount, bottomCount int) bool {
	if len(prefs.Top) != topCount || len(prefs.Bottom) != bottomCount {
		return false
	}

	for _, id := range prefs.Bottom {
		if slices.Contains(prefs.Top, id) {
			return false
		}
	}

	return true
}

// RankedCategories returns the categories the employee ranked, best first.
// Ties keep canonical category order and unknown categories are dropped.
func RankedCategories(prefs model.PreferenceSet) []model.Category {
	ranked := make([]model.Category, 0, len(model.Categories))
	for _, category := range model.Categories {
		if _, ok := prefs.CategoryRanks[category]; ok {
			ranked = append(ranked, category)
		}
	}

	slices.SortStableFunc(ranked, func(a, b model.Category) int {
		return prefs.CategoryRanks[a] - prefs.CategoryRanks[b]
	})

	return ranked
}

// SatisfactionScore scores an employee's Phase 1 outcome. Lower is better:
// the top list rank of their first shift, ScoreFallback if that shift was not
// in their top list, or ScoreUnassigned if they have no shift.
func SatisfactionScore(prefs model.PreferenceSet, held []int) int {
	if len(held) == 0 {
		return ScoreUnassigned
	}

	if rank := prefs.Rank(held[0]); rank > 0 {
		return rank
	}

	return ScoreFallback
}
