package allocator

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
	"github.com/jakechorley/weekend-shifts/pkg/core/model"
)

// Rank labels for shifts that have no top list rank
const (
	RankBottom   = "BOTTOM"
	RankUnranked = "UNRANKED"
)

// EmployeeStatus buckets how well an employee did
type EmployeeStatus string

const (
	StatusGreat      EmployeeStatus = "great"
	StatusGood       EmployeeStatus = "good"
	StatusOK         EmployeeStatus = "ok"
	StatusGotBottom  EmployeeStatus = "got_bottom"
	StatusIncomplete EmployeeStatus = "incomplete"
)

// Rank distribution buckets
const (
	BucketTop3     = "1-3"
	BucketTop6     = "4-6"
	BucketTop9     = "7-9"
	BucketTop12    = "10-12"
	BucketLower    = "13+"
	BucketBottom   = "bottom"
	BucketUnranked = "unranked"
)

// ShiftRank describes one assigned shift from the employee's point of view
type ShiftRank struct {
	ShiftID int    `json:"shiftId"`
	Rank    int    `json:"rank,omitempty"`
	Label   string `json:"label"`
}

// EmployeeResult summarizes a single employee's outcome
type EmployeeResult struct {
	EmployeeID  string         `json:"employeeId"`
	ShiftCount  int            `json:"shiftCount"`
	Ranks       []ShiftRank    `json:"ranks"`
	AverageRank float64        `json:"averageRank"`
	TopCount    int            `json:"topCount"`
	BottomCount int            `json:"bottomCount"`
	Status      EmployeeStatus `json:"status"`
}

// HasAverageRank returns true if at least one shift came from the top list
func (r EmployeeResult) HasAverageRank() bool {
	return r.TopCount > 0
}

// Summary aggregates how satisfied the roster is with an outcome
type Summary struct {
	// Employees are ordered best average rank first
	Employees []EmployeeResult `json:"employees"`

	TotalEmployees int `json:"totalEmployees"`
	FullyAssigned  int `json:"fullyAssigned"`
	BothFromTop    int `json:"bothFromTop"`
	OneFromTop     int `json:"oneFromTop"`
	GotBottom      int `json:"gotBottom"`

	// RankDistribution counts assigned shifts per rank bucket
	RankDistribution map[string]int `json:"rankDistribution"`

	// OverallAverageRank is the mean top list rank over all ranked shifts (0 if none)
	OverallAverageRank float64 `json:"overallAverageRank"`

	// VacantShifts lists shift IDs with no holder
	VacantShifts []int `json:"vacantShifts"`
}

// Summarize analyses an outcome against the submitted preferences
func Summarize(c *catalog.Catalog, preferences map[string]model.PreferenceSet, outcome *AllocationOutcome) Summary {
	summary := Summary{
		Employees:        []EmployeeResult{},
		RankDistribution: map[string]int{},
		VacantShifts:     []int{},
	}
	if outcome == nil {
		return summary
	}

	rankSum, rankCount := 0, 0

	for employeeID, held := range outcome.Assignments {
		prefs := preferences[employeeID]
		result := EmployeeResult{
			EmployeeID: employeeID,
			ShiftCount: len(held),
			Ranks:      make([]ShiftRank, 0, len(held)),
		}

		employeeRankSum := 0
		for _, shiftID := range held {
			switch rank := prefs.Rank(shiftID); {
			case rank > 0:
				result.Ranks = append(result.Ranks, ShiftRank{ShiftID: shiftID, Rank: rank, Label: rankLabel(rank)})
				result.TopCount++
				employeeRankSum += rank
				summary.RankDistribution[rankBucket(rank)]++
			case prefs.InBottom(shiftID):
				result.Ranks = append(result.Ranks, ShiftRank{ShiftID: shiftID, Label: RankBottom})
				result.BottomCount++
				summary.RankDistribution[BucketBottom]++
			default:
				result.Ranks = append(result.Ranks, ShiftRank{ShiftID: shiftID, Label: RankUnranked})
				summary.RankDistribution[BucketUnranked]++
			}
		}

		if result.TopCount > 0 {
			result.AverageRank = float64(employeeRankSum) / float64(result.TopCount)
		}
		rankSum += employeeRankSum
		rankCount += result.TopCount

		result.Status = employeeStatus(result)

		summary.Employees = append(summary.Employees, result)
		summary.TotalEmployees++
		if result.ShiftCount == MaxShiftsPerEmployee {
			summary.FullyAssigned++
		}
		switch result.TopCount {
		case 2:
			summary.BothFromTop++
		case 1:
			summary.OneFromTop++
		}
		if result.BottomCount > 0 {
			summary.GotBottom++
		}
	}

	if rankCount > 0 {
		summary.OverallAverageRank = float64(rankSum) / float64(rankCount)
	}

	// Best first; employees without a ranked shift sort last
	slices.SortFunc(summary.Employees, func(x, y EmployeeResult) int {
		if x.HasAverageRank() != y.HasAverageRank() {
			if x.HasAverageRank() {
				return -1
			}
			return 1
		}
		if n := cmp.Compare(x.AverageRank, y.AverageRank); n != 0 {
			return n
		}
		return cmp.Compare(x.EmployeeID, y.EmployeeID)
	})

	for _, shift := range c.Shifts() {
		if len(outcome.Occupancy[shift.ID]) == 0 {
			summary.VacantShifts = append(summary.VacantShifts, shift.ID)
		}
	}

	return summary
}

func employeeStatus(result EmployeeResult) EmployeeStatus {
	switch {
	case result.BottomCount > 0:
		return StatusGotBottom
	case result.TopCount < MaxShiftsPerEmployee:
		return StatusIncomplete
	case result.AverageRank <= 3:
		return StatusGreat
	case result.AverageRank <= 6:
		return StatusGood
	}
	return StatusOK
}

func rankBucket(rank int) string {
	switch {
	case rank <= 3:
		return BucketTop3
	case rank <= 6:
		return BucketTop6
	case rank <= 9:
		return BucketTop9
	case rank <= 12:
		return BucketTop12
	}
	return BucketLower
}

func rankLabel(rank int) string {
	return "#" + strconv.Itoa(rank)
}
