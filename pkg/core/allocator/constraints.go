package allocator

import "github.com/jakechorley/weekend-shifts/pkg/core/catalog"

// HasSameWeekendConflict returns true if any held shift belongs to the same
// weekend as the candidate. Unknown IDs never conflict.
func HasSameWeekendConflict(c *catalog.Catalog, held []int, candidateID int) bool {
	candidate, ok := c.Lookup(candidateID)
	if !ok {
		return false
	}

	for _, id := range held {
		existing, ok := c.Lookup(id)
		if ok && existing.Week == candidate.Week {
			return true
		}
	}

	return false
}

// HasSameSlotConflict returns true if any held shift falls on the same date
// and weekday as the candidate. This catches the two Sunday shifts of a
// weekend independently of the weekend grouping.
func HasSameSlotConflict(c *catalog.Catalog, held []int, candidateID int) bool {
	candidate, ok := c.Lookup(candidateID)
	if !ok {
		return false
	}

	for _, id := range held {
		existing, ok := c.Lookup(id)
		if ok && existing.Date.Equal(candidate.Date) && existing.Day == candidate.Day {
			return true
		}
	}

	return false
}

// IsEligible checks if a shift can be assigned to an employee holding the given shifts.
//
// Returns false if:
//   - The shift is not in the catalog
//   - The shift is at capacity
//   - The employee already works a shift that weekend
//   - The employee already works a shift on the same day
func IsEligible(c *catalog.Catalog, occupancy Occupancy, held []int, candidateID int) bool {
	shift, ok := c.Lookup(candidateID)
	if !ok {
		return false
	}

	if len(occupancy[candidateID]) >= shift.Capacity {
		return false
	}

	if HasSameWeekendConflict(c, held, candidateID) {
		return false
	}

	if HasSameSlotConflict(c, held, candidateID) {
		return false
	}

	return true
}
