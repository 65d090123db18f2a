package catalog

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/weekend-shifts/pkg/core/model"
)

// ShiftsPerWeekend is the number of shifts generated for each weekend
const ShiftsPerWeekend = 3

// DefaultCapacity is the capacity of every shift in the default catalog
const DefaultCapacity = 1

// window describes one of the fixed weekend time windows
type window struct {
	dayOffset int
	day       string
	start     string
	end       string
}

// windows are emitted in this order for every weekend
var windows = [ShiftsPerWeekend]window{
	{dayOffset: 0, day: model.Saturday, start: "11:00", end: "19:00"},
	{dayOffset: 1, day: model.Sunday, start: "08:00", end: "16:00"},
	{dayOffset: 1, day: model.Sunday, start: "15:00", end: "22:00"},
}

// Catalog is the immutable ordered list of shifts for a round
type Catalog struct {
	shifts []model.Shift
}

// CapacityOverride changes the capacity of shifts whose date it applies to
type CapacityOverride struct {
	// AppliesTo returns true if the override applies to the given shift date
	AppliesTo func(date time.Time) bool

	// Capacity replaces the default capacity
	Capacity int
}

// Options configures catalog generation
type Options struct {
	// Start is the first Saturday of the round
	Start time.Time

	// Weekends is the number of weekends to generate
	Weekends int

	// DefaultCapacity is applied to every shift without an override (0 means DefaultCapacity)
	DefaultCapacity int

	// Overrides are applied in order; the last matching override wins
	Overrides []CapacityOverride
}

// Generate builds the default catalog: three capacity-one shifts per weekend
// for the given number of weekends starting on the given Saturday.
func Generate(start time.Time, weekends int) *Catalog {
	return Build(Options{Start: start, Weekends: weekends})
}

// Build generates a catalog from options
func Build(opts Options) *Catalog {
	defaultCapacity := opts.DefaultCapacity
	if defaultCapacity <= 0 {
		defaultCapacity = DefaultCapacity
	}

	start := normalizeDate(opts.Start)
	weekends := max(opts.Weekends, 0)
	shifts := make([]model.Shift, 0, weekends*ShiftsPerWeekend)

	id := 0
	for week := 0; week < weekends; week++ {
		saturday := start.AddDate(0, 0, 7*week)

		for _, w := range windows {
			date := saturday.AddDate(0, 0, w.dayOffset)

			capacity := defaultCapacity
			for _, override := range opts.Overrides {
				if override.AppliesTo != nil && override.AppliesTo(date) {
					capacity = override.Capacity
				}
			}

			shifts = append(shifts, model.Shift{
				ID:       id,
				Date:     date,
				Day:      w.day,
				Start:    w.start,
				End:      w.end,
				Week:     week + 1,
				Capacity: capacity,
			})
			id++
		}
	}

	return &Catalog{shifts: shifts}
}

// FromShifts wraps an explicit list of shifts as a catalog.
// Shift IDs are expected to equal their position in the list.
func FromShifts(shifts []model.Shift) *Catalog {
	copied := make([]model.Shift, len(shifts))
	copy(copied, shifts)
	return &Catalog{shifts: copied}
}

// Shifts returns a copy of the shifts in catalog order
func (c *Catalog) Shifts() []model.Shift {
	if c == nil {
		return nil
	}
	shifts := make([]model.Shift, len(c.shifts))
	copy(shifts, c.shifts)
	return shifts
}

// Len returns the number of shifts in the catalog
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.shifts)
}

// Lookup returns the shift with the given ID.
// Returns false for IDs outside the catalog.
func (c *Catalog) Lookup(id int) (model.Shift, bool) {
	if c == nil || id < 0 || id >= len(c.shifts) {
		return model.Shift{}, false
	}
	return c.shifts[id], true
}

// Weekends returns the number of distinct weekend ordinals in the catalog
func (c *Catalog) Weekends() int {
	if c == nil || len(c.shifts) == 0 {
		return 0
	}
	return c.shifts[len(c.shifts)-1].Week
}

// RRuleOverride converts an RRULE string into a CapacityOverride.
// A shift date matches when it is an occurrence of the rule, searched over
// the window [start-7d, end+7d].
func RRuleOverride(ruleStr string, capacity int, start time.Time, weekends int) (CapacityOverride, error) {
	rule, err := rrule.StrToRRule(ruleStr)
	if err != nil {
		return CapacityOverride{}, fmt.Errorf("failed to parse rrule %q: %w", ruleStr, err)
	}

	searchStart := normalizeDate(start).AddDate(0, 0, -7)
	searchEnd := normalizeDate(start).AddDate(0, 0, 7*weekends+7)

	rule.DTStart(searchStart)
	occurrences := rule.Between(searchStart, searchEnd, true)

	dates := make(map[string]bool, len(occurrences))
	for _, occurrence := range occurrences {
		dates[occurrence.Format("2006-01-02")] = true
	}

	return CapacityOverride{
		AppliesTo: func(date time.Time) bool {
			return dates[date.Format("2006-01-02")]
		},
		Capacity: capacity,
	}, nil
}

// normalizeDate truncates t to midnight UTC
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
