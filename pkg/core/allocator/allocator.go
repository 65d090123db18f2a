package allocator

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
	"github.com/jakechorley/weekend-shifts/pkg/core/model"
)

// Allocator holds the mutable state of a single allocation run
type Allocator struct {
	catalog     *catalog.Catalog
	shifts      []model.Shift
	preferences map[string]model.PreferenceSet
	rng         *rand.Rand
	logger      *zap.Logger
	outcome     *AllocationOutcome
}

// Allocate runs the three allocation phases over the roster:
//
//   - Phase 1 gives each preference-complete employee one shift, in a seeded shuffled order
//   - Phase 2 gives them a second shift, worst Phase 1 outcome first
//   - Phase 3 randomly assigns two shifts to each preference-incomplete employee
//
// All phases share one occupancy map, so earlier assignments take capacity
// away from later ones. The run never fails: shortfalls are reported through
// warnings or simply leave employees with fewer than two shifts.
func Allocate(config AllocationConfig) *AllocationOutcome {
	a := newAllocator(config)
	roster := normalizeRoster(config.Roster)

	for _, employeeID := range roster {
		a.outcome.Assignments[employeeID] = []int{}
	}

	if len(roster) == 0 || len(a.shifts) == 0 {
		return a.outcome
	}

	topCount := config.TopCount
	if topCount <= 0 {
		topCount = DefaultTopCount
	}
	bottomCount := config.BottomCount
	if bottomCount <= 0 {
		bottomCount = DefaultBottomCount
	}

	// Split roster by preference completeness
	complete := make([]string, 0, len(roster))
	for _, employeeID := range roster {
		prefs, ok := a.preferences[employeeID]
		if ok && IsComplete(prefs, topCount, bottomCount) {
			complete = append(complete, employeeID)
		} else {
			a.outcome.Incomplete = append(a.outcome.Incomplete, employeeID)
		}
	}

	seed := DefaultSeed
	if config.Seed != nil {
		seed = *config.Seed
	}

	a.logger.Debug("Starting allocation",
		zap.Int("roster", len(roster)),
		zap.Int("complete", len(complete)),
		zap.Int("incomplete", len(a.outcome.Incomplete)),
		zap.Int("shifts", len(a.shifts)),
		zap.Int64("seed", seed))

	a.runFirstShiftPhase(complete, seed)
	a.runSecondShiftPhase(complete)
	a.runRandomPhase(a.outcome.Incomplete)

	return a.outcome
}

func newAllocator(config AllocationConfig) *Allocator {
	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	preferences := config.Preferences
	if preferences == nil {
		preferences = map[string]model.PreferenceSet{}
	}

	shifts := config.Catalog.Shifts()

	// Initialize with empty slices (not nil) for easier consumption
	outcome := &AllocationOutcome{
		Assignments:  Assignments{},
		Occupancy:    make(Occupancy, len(shifts)),
		Warnings:     []string{},
		Phase1Order:  []string{},
		Phase1Scores: map[string]int{},
		Incomplete:   []string{},
		Picks:        []Pick{},
	}
	for _, shift := range shifts {
		outcome.Occupancy[shift.ID] = []string{}
	}

	return &Allocator{
		catalog:     config.Catalog,
		shifts:      shifts,
		preferences: preferences,
		rng:         rng,
		logger:      logger,
		outcome:     outcome,
	}
}

// runFirstShiftPhase assigns one shift to each preference-complete employee in seeded random order
func (a *Allocator) runFirstShiftPhase(complete []string, seed int64) {
	order := slices.Clone(complete)
	shuffler := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	shuffler.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	a.outcome.Phase1Order = order

	for _, employeeID := range order {
		if !a.assignPreferredShift(employeeID, 1) {
			a.logger.Debug("Could not assign first shift", zap.String("employee_id", employeeID))
		}
	}
}

// runSecondShiftPhase assigns a second shift to preference-complete employees,
// starting with those whose first shift matched their preferences worst
func (a *Allocator) runSecondShiftPhase(complete []string) {
	type candidate struct {
		employeeID string
		score      int
		draw       float64
	}

	candidates := make([]candidate, 0, len(complete))
	for _, employeeID := range complete {
		score := SatisfactionScore(a.preferences[employeeID], a.outcome.Assignments[employeeID])
		a.outcome.Phase1Scores[employeeID] = score
		candidates = append(candidates, candidate{
			employeeID: employeeID,
			score:      score,
			draw:       a.rng.Float64(),
		})
	}

	// Worst off first, random order within the same score
	slices.SortStableFunc(candidates, func(x, y candidate) int {
		if x.score != y.score {
			return cmp.Compare(y.score, x.score)
		}
		return cmp.Compare(x.draw, y.draw)
	})

	for _, c := range candidates {
		if len(a.outcome.Assignments[c.employeeID]) >= MaxShiftsPerEmployee {
			continue
		}

		if !a.assignPreferredShift(c.employeeID, 2) {
			a.logger.Debug("Could not assign second shift",
				zap.String("employee_id", c.employeeID),
				zap.Int("phase1_score", c.score))
		}
	}
}

// runRandomPhase assigns two random shifts to each preference-incomplete employee
func (a *Allocator) runRandomPhase(incomplete []string) {
	for _, employeeID := range incomplete {
		a.outcome.Warnings = append(a.outcome.Warnings,
			fmt.Sprintf("%s was randomly assigned (no complete preferences submitted)", employeeID))

		held := a.outcome.Assignments[employeeID]

		eligible := make([]int, 0, len(a.shifts))
		for _, shift := range a.shifts {
			if IsEligible(a.catalog, a.outcome.Occupancy, held, shift.ID) {
				eligible = append(eligible, shift.ID)
			}
		}

		pairs := a.compatiblePairs(held, eligible)
		if len(pairs) == 0 {
			a.logger.Debug("Not enough available shifts for random assignment",
				zap.String("employee_id", employeeID),
				zap.Int("eligible", len(eligible)))
			a.outcome.Warnings = append(a.outcome.Warnings,
				fmt.Sprintf("%s could not be fully assigned - insufficient available shifts", employeeID))
			continue
		}

		pair := pairs[a.rng.IntN(len(pairs))]
		if a.rng.IntN(2) == 1 {
			pair[0], pair[1] = pair[1], pair[0]
		}

		for _, shiftID := range pair {
			a.assign(employeeID, shiftID, Pick{Phase: 3, Source: SourceRandom})
		}
	}
}

// compatiblePairs returns every pair of eligible shifts that can be held together
func (a *Allocator) compatiblePairs(held []int, eligible []int) [][2]int {
	var pairs [][2]int
	for i, first := range eligible {
		withFirst := append(slices.Clone(held), first)
		for _, second := range eligible[i+1:] {
			if IsEligible(a.catalog, a.outcome.Occupancy, withFirst, second) {
				pairs = append(pairs, [2]int{first, second})
			}
		}
	}
	return pairs
}

// assignPreferredShift gives the employee one more shift, trying their top list
// in rank order and then their ranked categories. Returns false if nothing fits.
func (a *Allocator) assignPreferredShift(employeeID string, phase int) bool {
	prefs := a.preferences[employeeID]
	held := a.outcome.Assignments[employeeID]

	for i, shiftID := range prefs.Top {
		if slices.Contains(held, shiftID) {
			continue
		}
		if !IsEligible(a.catalog, a.outcome.Occupancy, held, shiftID) {
			continue
		}

		a.assign(employeeID, shiftID, Pick{Phase: phase, Source: SourceTop, Rank: i + 1})
		return true
	}

	for _, category := range RankedCategories(prefs) {
		for _, shift := range a.shifts {
			if !shift.MatchesCategory(category) {
				continue
			}

			// Top list shifts were already tried, bottom list shifts are unwanted
			if prefs.InTop(shift.ID) || prefs.InBottom(shift.ID) || slices.Contains(held, shift.ID) {
				continue
			}

			if !IsEligible(a.catalog, a.outcome.Occupancy, held, shift.ID) {
				continue
			}

			a.assign(employeeID, shift.ID, Pick{Phase: phase, Source: SourceFallback})
			return true
		}
	}

	return false
}

// assign records the shift against the employee and the occupancy map
func (a *Allocator) assign(employeeID string, shiftID int, pick Pick) {
	pick.EmployeeID = employeeID
	pick.ShiftID = shiftID

	a.outcome.Assignments[employeeID] = append(a.outcome.Assignments[employeeID], shiftID)
	a.outcome.Occupancy[shiftID] = append(a.outcome.Occupancy[shiftID], employeeID)
	a.outcome.Picks = append(a.outcome.Picks, pick)

	a.logger.Debug("Assigned shift",
		zap.String("employee_id", employeeID),
		zap.Int("shift_id", shiftID),
		zap.Int("phase", pick.Phase),
		zap.String("source", string(pick.Source)),
		zap.Int("rank", pick.Rank))
}

// normalizeRoster drops blank and duplicate IDs and sorts the rest so the
// seeded shuffle does not depend on the caller's ordering
func normalizeRoster(roster []string) []string {
	seen := make(map[string]bool, len(roster))
	normalized := make([]string, 0, len(roster))
	for _, employeeID := range roster {
		if employeeID == "" || seen[employeeID] {
			continue
		}
		seen[employeeID] = true
		normalized = append(normalized, employeeID)
	}
	slices.Sort(normalized)
	return normalized
}
