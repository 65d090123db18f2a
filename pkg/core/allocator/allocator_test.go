package allocator

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
	"github.com/jakechorley/weekend-shifts/pkg/core/model"
)

func fixedRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// randomPreferences builds a complete production-size preference set
func randomPreferences(r *rand.Rand, shiftCount int) model.PreferenceSet {
	perm := r.Perm(shiftCount)
	ranks := r.Perm(3)
	return model.PreferenceSet{
		Top:    perm[:DefaultTopCount],
		Bottom: perm[DefaultTopCount : DefaultTopCount+DefaultBottomCount],
		CategoryRanks: map[model.Category]int{
			model.CategorySaturday:      ranks[0] + 1,
			model.CategorySundayMorning: ranks[1] + 1,
			model.CategorySundayEvening: ranks[2] + 1,
		},
	}
}

func firstShifts(outcome *AllocationOutcome) map[string]int {
	first := make(map[string]int)
	for _, pick := range outcome.Picks {
		if pick.Phase == 1 {
			first[pick.EmployeeID] = pick.ShiftID
		}
	}
	return first
}

func TestAllocate_EmptyRoster(t *testing.T) {
	c := catalog.Generate(roundStart, 2)

	outcome := Allocate(AllocationConfig{Catalog: c})

	assert.Empty(t, outcome.Assignments)
	assert.Empty(t, outcome.Warnings)
	assert.Len(t, outcome.Occupancy, 6)
	for _, holders := range outcome.Occupancy {
		assert.Empty(t, holders)
	}
}

func TestAllocate_EmptyCatalog(t *testing.T) {
	outcome := Allocate(AllocationConfig{
		Roster:  []string{"alice", "bob"},
		Catalog: catalog.Generate(roundStart, 0),
	})

	require.Len(t, outcome.Assignments, 2)
	assert.Empty(t, outcome.Assignments["alice"])
	assert.Empty(t, outcome.Assignments["bob"])
	assert.Empty(t, outcome.Warnings)
	assert.Empty(t, outcome.Occupancy)
}

func TestAllocate_NilCatalog(t *testing.T) {
	outcome := Allocate(AllocationConfig{Roster: []string{"alice"}})

	assert.Empty(t, outcome.Assignments["alice"])
	assert.Empty(t, outcome.Warnings)
}

func TestAllocate_SecondShiftAvoidsSameDayPair(t *testing.T) {
	// Saturday in one weekend group, both Sunday shifts of the same day in another,
	// so only the same-day rule keeps the Sunday shifts apart
	saturday := roundStart
	sunday := roundStart.AddDate(0, 0, 1)
	c := catalog.FromShifts([]model.Shift{
		{ID: 0, Date: saturday, Day: model.Saturday, Start: "11:00", End: "19:00", Week: 1, Capacity: 1},
		{ID: 1, Date: sunday, Day: model.Sunday, Start: "08:00", End: "16:00", Week: 2, Capacity: 1},
		{ID: 2, Date: sunday, Day: model.Sunday, Start: "15:00", End: "22:00", Week: 2, Capacity: 1},
		{ID: 3, Date: roundStart.AddDate(0, 0, 7), Day: model.Saturday, Start: "11:00", End: "19:00", Week: 3, Capacity: 1},
	})

	for i := range 20 {
		outcome := Allocate(AllocationConfig{
			Roster: []string{"e"},
			Preferences: map[string]model.PreferenceSet{
				"e": {
					Top:    []int{0},
					Bottom: []int{3},
					CategoryRanks: map[model.Category]int{
						model.CategorySundayEvening: 1,
						model.CategorySundayMorning: 2,
						model.CategorySaturday:      3,
					},
				},
			},
			Catalog:     c,
			TopCount:    1,
			BottomCount: 1,
			Rand:        fixedRand(uint64(i)),
		})

		held := outcome.Assignments["e"]
		require.Len(t, held, 2)
		assert.Equal(t, 0, held[0], "Phase 1 should assign the top choice")
		assert.Contains(t, []int{1, 2}, held[1], "Phase 2 should assign exactly one Sunday shift")
		assert.Empty(t, outcome.Warnings)
	}
}

func TestAllocate_SecondShiftBlockedBySameWeekend(t *testing.T) {
	// One standard weekend: the Saturday holder cannot take either Sunday shift
	c := catalog.Generate(roundStart, 1)

	outcome := Allocate(AllocationConfig{
		Roster: []string{"e"},
		Preferences: map[string]model.PreferenceSet{
			"e": {
				Top:    []int{0},
				Bottom: []int{2},
				CategoryRanks: map[model.Category]int{
					model.CategorySundayMorning: 1,
				},
			},
		},
		Catalog:     c,
		TopCount:    1,
		BottomCount: 1,
	})

	assert.Equal(t, []int{0}, outcome.Assignments["e"])
	assert.Empty(t, outcome.Occupancy[1])
	assert.Empty(t, outcome.Occupancy[2])
	assert.Empty(t, outcome.Warnings, "Under-assigned preference-complete employees get no warning")
}

func TestAllocate_TwoEmployeesSameTopShift(t *testing.T) {
	c := catalog.Generate(roundStart, 1)
	prefs := model.PreferenceSet{
		Top:    []int{0},
		Bottom: []int{2},
		CategoryRanks: map[model.Category]int{
			model.CategorySaturday:      1,
			model.CategorySundayMorning: 2,
		},
	}

	run := func(r *rand.Rand) *AllocationOutcome {
		return Allocate(AllocationConfig{
			Roster:      []string{"alice", "bob"},
			Preferences: map[string]model.PreferenceSet{"alice": prefs, "bob": prefs},
			Catalog:     c,
			TopCount:    1,
			BottomCount: 1,
			Rand:        r,
		})
	}

	first := run(fixedRand(1))
	second := run(fixedRand(2))

	require.Len(t, first.Occupancy[0], 1, "Exactly one employee gets the contested shift")
	winner := first.Occupancy[0][0]
	loser := "alice"
	if winner == "alice" {
		loser = "bob"
	}

	assert.Equal(t, first.Phase1Order[0], winner, "The first employee in seeded order wins")
	assert.Equal(t, []int{1}, first.Assignments[loser], "The loser falls back to their next ranked category")
	assert.Equal(t, ScoreFallback, first.Phase1Scores[loser])
	assert.Equal(t, 1, first.Phase1Scores[winner])

	assert.Equal(t, first.Phase1Order, second.Phase1Order)
	assert.Equal(t, first.Occupancy[0], second.Occupancy[0], "Seeded runs pick the same winner")
}

func TestAllocate_Phase1IsReproducible(t *testing.T) {
	c := catalog.Generate(roundStart, 20)
	gen := fixedRand(7)

	roster := make([]string, 0, 30)
	preferences := make(map[string]model.PreferenceSet)
	for i := range 30 {
		id := "employee" + string(rune('A'+i))
		roster = append(roster, id)
		preferences[id] = randomPreferences(gen, c.Len())
	}

	first := Allocate(AllocationConfig{Roster: roster, Preferences: preferences, Catalog: c, Rand: fixedRand(100)})
	second := Allocate(AllocationConfig{Roster: roster, Preferences: preferences, Catalog: c, Rand: fixedRand(200)})

	assert.Equal(t, first.Phase1Order, second.Phase1Order)
	assert.Equal(t, firstShifts(first), firstShifts(second))

	// A different seed shuffles differently
	seed := int64(7)
	other := Allocate(AllocationConfig{Roster: roster, Preferences: preferences, Catalog: c, Seed: &seed})
	assert.NotEqual(t, first.Phase1Order, other.Phase1Order)
}

func TestAllocate_RosterOrderDoesNotAffectPhase1(t *testing.T) {
	c := catalog.Generate(roundStart, 8)
	gen := fixedRand(3)
	preferences := map[string]model.PreferenceSet{
		"a": randomPreferences(gen, c.Len()),
		"b": randomPreferences(gen, c.Len()),
		"c": randomPreferences(gen, c.Len()),
	}

	first := Allocate(AllocationConfig{Roster: []string{"a", "b", "c"}, Preferences: preferences, Catalog: c})
	second := Allocate(AllocationConfig{Roster: []string{"c", "", "a", "b", "a"}, Preferences: preferences, Catalog: c})

	assert.Equal(t, first.Phase1Order, second.Phase1Order)
	assert.Equal(t, firstShifts(first), firstShifts(second))
	assert.Len(t, second.Assignments, 3)
}

func TestAllocate_Phase2ServesWorstOffFirst(t *testing.T) {
	c := catalog.Generate(roundStart, 3)

	outcome := Allocate(AllocationConfig{
		Roster: []string{"alice", "bob"},
		Preferences: map[string]model.PreferenceSet{
			// alice gets her first choice in Phase 1
			"alice": {
				Top:           []int{0, 6, 7},
				Bottom:        []int{8},
				CategoryRanks: map[model.Category]int{model.CategorySaturday: 1},
			},
			// bob's first two choices do not exist, so he only gets his third
			"bob": {
				Top:           []int{100, 101, 3},
				Bottom:        []int{8},
				CategoryRanks: map[model.Category]int{model.CategorySaturday: 1},
			},
		},
		Catalog:     c,
		TopCount:    3,
		BottomCount: 1,
	})

	assert.Equal(t, 1, outcome.Phase1Scores["alice"])
	assert.Equal(t, 3, outcome.Phase1Scores["bob"])

	// bob goes first in Phase 2 and takes shift 6 through his Saturday fallback
	assert.Equal(t, []int{3, 6}, outcome.Assignments["bob"])
	assert.Equal(t, []int{0, 7}, outcome.Assignments["alice"])

	var phase2 []Pick
	for _, pick := range outcome.Picks {
		if pick.Phase == 2 {
			phase2 = append(phase2, pick)
		}
	}
	require.Len(t, phase2, 2)
	assert.Equal(t, "bob", phase2[0].EmployeeID)
	assert.Equal(t, SourceFallback, phase2[0].Source)
	assert.Equal(t, "alice", phase2[1].EmployeeID)
	assert.Equal(t, SourceTop, phase2[1].Source)
	assert.Equal(t, 3, phase2[1].Rank)
}

func TestAllocate_FallbackFollowsCategoryRankingAndSkipsBottom(t *testing.T) {
	c := catalog.Generate(roundStart, 2)

	outcome := Allocate(AllocationConfig{
		Roster: []string{"e"},
		Preferences: map[string]model.PreferenceSet{
			"e": {
				Top:    []int{99},
				Bottom: []int{4},
				CategoryRanks: map[model.Category]int{
					model.CategorySundayMorning: 1,
					model.CategorySaturday:      2,
					model.CategorySundayEvening: 3,
				},
			},
		},
		Catalog:     c,
		TopCount:    1,
		BottomCount: 1,
	})

	// Phase 1: first Sunday morning. Phase 2: second Sunday morning is unwanted, so Saturday of week 2
	assert.Equal(t, []int{1, 3}, outcome.Assignments["e"])
	for _, pick := range outcome.Picks {
		assert.Equal(t, SourceFallback, pick.Source)
	}
	assert.Equal(t, ScoreFallback, outcome.Phase1Scores["e"])
}

func TestAllocate_NoCategoryRanksMeansNoFallback(t *testing.T) {
	c := catalog.Generate(roundStart, 1)

	outcome := Allocate(AllocationConfig{
		Roster: []string{"a", "b"},
		Preferences: map[string]model.PreferenceSet{
			"a": {Top: []int{0}, Bottom: []int{2}},
			"b": {Top: []int{0}, Bottom: []int{2}},
		},
		Catalog:     c,
		TopCount:    1,
		BottomCount: 1,
	})

	total := len(outcome.Assignments["a"]) + len(outcome.Assignments["b"])
	assert.Equal(t, 1, total)
	assert.Contains(t, outcome.Phase1Scores, "a")
	assert.Contains(t, outcome.Phase1Scores, "b")

	loser := "a"
	if len(outcome.Assignments["a"]) == 1 {
		loser = "b"
	}
	assert.Equal(t, ScoreUnassigned, outcome.Phase1Scores[loser])
}

func TestAllocate_FullCatalogLeavesLateEmployeeUnassigned(t *testing.T) {
	c := catalog.Generate(roundStart, 1)

	outcome := Allocate(AllocationConfig{
		Roster: []string{"a", "b", "c", "zed"},
		Preferences: map[string]model.PreferenceSet{
			"a": {Top: []int{0}, Bottom: []int{1}},
			"b": {Top: []int{1}, Bottom: []int{2}},
			"c": {Top: []int{2}, Bottom: []int{0}},
		},
		Catalog:     c,
		TopCount:    1,
		BottomCount: 1,
	})

	assert.Equal(t, []int{0}, outcome.Assignments["a"])
	assert.Equal(t, []int{1}, outcome.Assignments["b"])
	assert.Equal(t, []int{2}, outcome.Assignments["c"])
	assert.Empty(t, outcome.Assignments["zed"])
	assert.Equal(t, []string{
		"zed was randomly assigned (no complete preferences submitted)",
		"zed could not be fully assigned - insufficient available shifts",
	}, outcome.Warnings)
}

func TestAllocate_RandomPhaseAssignsCompatiblePair(t *testing.T) {
	c := catalog.Generate(roundStart, 2)

	for i := range 25 {
		outcome := Allocate(AllocationConfig{
			Roster:  []string{"laggard"},
			Catalog: c,
			Rand:    fixedRand(uint64(i)),
		})

		held := outcome.Assignments["laggard"]
		require.Len(t, held, 2)

		first, _ := c.Lookup(held[0])
		second, _ := c.Lookup(held[1])
		assert.NotEqual(t, first.Week, second.Week)

		assert.Equal(t, []string{"laggard was randomly assigned (no complete preferences submitted)"}, outcome.Warnings)
		for _, pick := range outcome.Picks {
			assert.Equal(t, 3, pick.Phase)
			assert.Equal(t, SourceRandom, pick.Source)
		}
	}
}

func TestAllocate_RandomPhaseNeedsTwoCompatibleShifts(t *testing.T) {
	// Three free shifts, but all in the same weekend
	c := catalog.Generate(roundStart, 1)

	outcome := Allocate(AllocationConfig{
		Roster:  []string{"laggard"},
		Catalog: c,
	})

	assert.Empty(t, outcome.Assignments["laggard"], "No partial single-shift assignment")
	assert.Len(t, outcome.Warnings, 2)
}

func TestAllocate_MalformedPreferencesAreRandomlyAssigned(t *testing.T) {
	c := catalog.Generate(roundStart, 20)
	gen := fixedRand(11)

	complete := randomPreferences(gen, c.Len())
	overlapping := randomPreferences(gen, c.Len())
	overlapping.Bottom[0] = overlapping.Top[0]
	partial := randomPreferences(gen, c.Len())
	partial.Top = partial.Top[:5]

	outcome := Allocate(AllocationConfig{
		Roster: []string{"complete", "overlapping", "partial", "missing"},
		Preferences: map[string]model.PreferenceSet{
			"complete":    complete,
			"overlapping": overlapping,
			"partial":     partial,
		},
		Catalog: c,
	})

	assert.Equal(t, []string{"complete"}, outcome.Phase1Order)
	assert.Equal(t, []string{"missing", "overlapping", "partial"}, outcome.Incomplete)
	assert.Len(t, outcome.Warnings, 3)

	for _, warning := range outcome.Warnings {
		assert.False(t, strings.HasPrefix(warning, "complete "))
	}

	for _, pick := range outcome.Picks {
		if pick.EmployeeID == "complete" {
			assert.Contains(t, []int{1, 2}, pick.Phase)
		} else {
			assert.Equal(t, 3, pick.Phase)
		}
	}
}

func TestAllocate_CapacityAboveOne(t *testing.T) {
	c := catalog.Build(catalog.Options{Start: roundStart, Weekends: 1, DefaultCapacity: 2})
	prefs := model.PreferenceSet{Top: []int{0}, Bottom: []int{2}}

	outcome := Allocate(AllocationConfig{
		Roster:      []string{"a", "b", "c"},
		Preferences: map[string]model.PreferenceSet{"a": prefs, "b": prefs, "c": prefs},
		Catalog:     c,
		TopCount:    1,
		BottomCount: 1,
	})

	assert.Len(t, outcome.Occupancy[0], 2)
	assert.Empty(t, ValidateOutcome(c, outcome))
}

func TestAllocate_Invariants(t *testing.T) {
	c := catalog.Generate(roundStart, 20)

	for run := range 10 {
		gen := fixedRand(uint64(run))

		roster := make([]string, 0, 30)
		preferences := make(map[string]model.PreferenceSet)
		for i := range 30 {
			id := "employee" + string(rune('a'+i))
			roster = append(roster, id)
			// Every third employee never submitted preferences
			if i%3 != 0 {
				preferences[id] = randomPreferences(gen, c.Len())
			}
		}

		outcome := Allocate(AllocationConfig{
			Roster:      roster,
			Preferences: preferences,
			Catalog:     c,
			Rand:        fixedRand(uint64(run + 1000)),
		})

		assert.Empty(t, ValidateOutcome(c, outcome), "run %d", run)

		for shiftID, holders := range outcome.Occupancy {
			shift, ok := c.Lookup(shiftID)
			require.True(t, ok)
			assert.LessOrEqual(t, len(holders), shift.Capacity)
		}

		for employeeID, held := range outcome.Assignments {
			assert.LessOrEqual(t, len(held), MaxShiftsPerEmployee, employeeID)
			if len(held) == 2 {
				first, _ := c.Lookup(held[0])
				second, _ := c.Lookup(held[1])
				assert.NotEqual(t, first.Week, second.Week, employeeID)
				assert.False(t, first.Date.Equal(second.Date) && first.Day == second.Day, employeeID)
			}
		}

		// 60 shifts and 30 employees wanting 2 each: only incomplete employees get warnings
		for _, warning := range outcome.Warnings {
			id := strings.Fields(warning)[0]
			_, hasPrefs := preferences[id]
			assert.False(t, hasPrefs, warning)
		}
	}
}
