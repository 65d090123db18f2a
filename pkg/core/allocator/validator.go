package allocator

import (
	"fmt"
	"slices"

	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
)

// Violation types reported by ValidateOutcome
const (
	ViolationUnknownShift      = "unknown_shift"
	ViolationOverCapacity      = "over_capacity"
	ViolationTooManyShifts     = "too_many_shifts"
	ViolationSameWeekend       = "same_weekend"
	ViolationSameSlot          = "same_slot"
	ViolationDuplicateShift    = "duplicate_shift"
	ViolationOccupancyMismatch = "occupancy_mismatch"
)

// Violation describes a broken invariant in an allocation outcome
type Violation struct {
	Type        string `json:"type"`
	EmployeeID  string `json:"employeeId,omitempty"`
	ShiftID     int    `json:"shiftId"`
	Description string `json:"description"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s", v.Type, v.Description)
}

// ValidateOutcome re-checks the final assignment and occupancy maps against the catalog.
// Returns an empty slice if all invariants hold.
func ValidateOutcome(c *catalog.Catalog, outcome *AllocationOutcome) []Violation {
	violations := []Violation{}
	if outcome == nil {
		return violations
	}

	employeeIDs := make([]string, 0, len(outcome.Assignments))
	for employeeID := range outcome.Assignments {
		employeeIDs = append(employeeIDs, employeeID)
	}
	slices.Sort(employeeIDs)

	holders := make(map[int][]string)

	for _, employeeID := range employeeIDs {
		held := outcome.Assignments[employeeID]

		if len(held) > MaxShiftsPerEmployee {
			violations = append(violations, Violation{
				Type:        ViolationTooManyShifts,
				EmployeeID:  employeeID,
				Description: fmt.Sprintf("%s holds %d shifts (max %d)", employeeID, len(held), MaxShiftsPerEmployee),
			})
		}

		for i, shiftID := range held {
			if _, ok := c.Lookup(shiftID); !ok {
				violations = append(violations, Violation{
					Type:        ViolationUnknownShift,
					EmployeeID:  employeeID,
					ShiftID:     shiftID,
					Description: fmt.Sprintf("%s holds unknown shift %d", employeeID, shiftID),
				})
				continue
			}

			holders[shiftID] = append(holders[shiftID], employeeID)

			earlier := held[:i]
			if slices.Contains(earlier, shiftID) {
				violations = append(violations, Violation{
					Type:        ViolationDuplicateShift,
					EmployeeID:  employeeID,
					ShiftID:     shiftID,
					Description: fmt.Sprintf("%s holds shift %d more than once", employeeID, shiftID),
				})
				continue
			}

			if HasSameWeekendConflict(c, earlier, shiftID) {
				violations = append(violations, Violation{
					Type:        ViolationSameWeekend,
					EmployeeID:  employeeID,
					ShiftID:     shiftID,
					Description: fmt.Sprintf("%s holds shift %d in a weekend they already work", employeeID, shiftID),
				})
			}

			if HasSameSlotConflict(c, earlier, shiftID) {
				violations = append(violations, Violation{
					Type:        ViolationSameSlot,
					EmployeeID:  employeeID,
					ShiftID:     shiftID,
					Description: fmt.Sprintf("%s holds shift %d on a day they already work", employeeID, shiftID),
				})
			}
		}
	}

	for _, shift := range c.Shifts() {
		assigned := holders[shift.ID]

		if len(assigned) > shift.Capacity {
			violations = append(violations, Violation{
				Type:        ViolationOverCapacity,
				ShiftID:     shift.ID,
				Description: fmt.Sprintf("shift %d has %d holders (capacity %d)", shift.ID, len(assigned), shift.Capacity),
			})
		}

		occupants := slices.Clone(outcome.Occupancy[shift.ID])
		slices.Sort(occupants)
		slices.Sort(assigned)
		if !slices.Equal(occupants, assigned) {
			violations = append(violations, Violation{
				Type:        ViolationOccupancyMismatch,
				ShiftID:     shift.ID,
				Description: fmt.Sprintf("shift %d occupancy %v does not match assignments %v", shift.ID, occupants, assigned),
			})
		}
	}

	return violations
}
