package allocator

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
	"github.com/jakechorley/weekend-shifts/pkg/core/model"
)

const (
	// DefaultTopCount is the production length of the most-wanted list
	DefaultTopCount = 12

	// DefaultBottomCount is the production size of the least-wanted set
	DefaultBottomCount = 6

	// DefaultSeed seeds the Phase 1 shuffle so identical input gives identical order
	DefaultSeed int64 = 42

	// MaxShiftsPerEmployee is the number of shifts each employee should end up with
	MaxShiftsPerEmployee = 2
)

// Satisfaction scores used to order Phase 2. Higher is worse off.
const (
	// ScoreFallback is the score of an employee whose Phase 1 shift was not in their top list
	ScoreFallback = 999

	// ScoreUnassigned is the score of an employee with no Phase 1 shift
	ScoreUnassigned = 9999
)

// Assignments maps employee ID to assigned shift IDs in assignment order
type Assignments map[string][]int

// Occupancy maps shift ID to the employee IDs holding it
type Occupancy map[int][]string

// PickSource describes how a shift came to be assigned
type PickSource string

const (
	SourceTop      PickSource = "top"
	SourceFallback PickSource = "fallback"
	SourceRandom   PickSource = "random"
)

// Pick records a single assignment made during a run
type Pick struct {
	EmployeeID string     `json:"employeeId"`
	ShiftID    int        `json:"shiftId"`
	Phase      int        `json:"phase"`
	Source     PickSource `json:"source"`

	// Rank is the 1-based top list rank for SourceTop picks, otherwise 0
	Rank int `json:"rank,omitempty"`
}

// AllocationConfig contains everything a single allocation run needs
type AllocationConfig struct {
	// Roster is the set of employee IDs to allocate (duplicates are ignored)
	Roster []string

	// Preferences maps employee ID to their submitted preferences (optional per employee)
	Preferences map[string]model.PreferenceSet

	// Catalog is the shift catalog for the round
	Catalog *catalog.Catalog

	// TopCount and BottomCount define a complete preference set (0 means the defaults)
	TopCount    int
	BottomCount int

	// Seed seeds the Phase 1 shuffle (nil means DefaultSeed)
	Seed *int64

	// Rand drives the Phase 2 tie-break and Phase 3 sampling.
	// When nil an unseeded source is used, so those draws differ between runs.
	Rand *rand.Rand

	// Logger receives per-pick debug logs (nil means no logging)
	Logger *zap.Logger
}

// AllocationOutcome is the result of an allocation run
type AllocationOutcome struct {
	// Assignments holds every roster employee, with zero to two shifts each
	Assignments Assignments

	// Occupancy holds every catalog shift, with its current holders
	Occupancy Occupancy

	// Warnings are advisory messages produced for preference-incomplete employees
	Warnings []string

	// Phase1Order is the seeded processing order of preference-complete employees
	Phase1Order []string

	// Phase1Scores is the satisfaction score of each preference-complete employee after Phase 1
	Phase1Scores map[string]int

	// Incomplete lists employees routed to Phase 3, in roster order
	Incomplete []string

	// Picks records every assignment in the order it was made
	Picks []Pick
}
