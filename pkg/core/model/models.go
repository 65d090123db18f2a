package model

import "time"

// Weekday labels used by the shift catalog
const (
	Saturday = "Saturday"
	Sunday   = "Sunday"
)

// Category groups shifts by weekday and time window for fallback ranking
type Category string

const (
	CategorySaturday      Category = "saturday"
	CategorySundayMorning Category = "sunday_morning"
	CategorySundayEvening Category = "sunday_evening"
)

// Categories lists every category in canonical order
var Categories = []Category{CategorySaturday, CategorySundayMorning, CategorySundayEvening}

// IsValid returns true if c is one of the known categories
func (c Category) IsValid() bool {
	switch c {
	case CategorySaturday, CategorySundayMorning, CategorySundayEvening:
		return true
	}
	return false
}

// Shift is a single capacity-bounded work slot in the catalog
type Shift struct {
	// ID is the 0-based position of the shift in the catalog
	ID int `json:"id"`

	// Date is the calendar date of the shift (midnight UTC)
	Date time.Time `json:"date"`

	// Day is the weekday label (Saturday or Sunday)
	Day string `json:"day"`

	// Start and End are the "HH:MM" bounds of the time window
	Start string `json:"start"`
	End   string `json:"end"`

	// Week is the 1-based weekend ordinal shared by the three shifts of a weekend
	Week int `json:"week"`

	// Capacity is the number of employees the shift can hold
	Capacity int `json:"capacity"`
}

// DateString returns the shift date formatted as YYYY-MM-DD
func (s Shift) DateString() string {
	return s.Date.Format("2006-01-02")
}

// TimeWindow returns the human-readable time window label, e.g. "11:00-19:00"
func (s Shift) TimeWindow() string {
	return s.Start + "-" + s.End
}

// Category returns the fallback category the shift belongs to.
// The second return value is false for shifts that match no category.
func (s Shift) Category() (Category, bool) {
	switch {
	case s.Day == Saturday:
		return CategorySaturday, true
	case s.Day == Sunday && s.Start == "08:00":
		return CategorySundayMorning, true
	case s.Day == Sunday && s.Start == "15:00":
		return CategorySundayEvening, true
	}
	return "", false
}

// MatchesCategory returns true if the shift belongs to category c
func (s Shift) MatchesCategory(c Category) bool {
	category, ok := s.Category()
	return ok && category == c
}

// String formats the shift for display, e.g. "2025-12-14 Sunday 08:00-16:00"
func (s Shift) String() string {
	return s.DateString() + " " + s.Day + " " + s.TimeWindow()
}

// PreferenceSet is an employee's declared shift preferences
type PreferenceSet struct {
	// Top holds the most-wanted shift IDs, most wanted first (rank = index + 1)
	Top []int `json:"top"`

	// Bottom holds the least-wanted shift IDs (unordered)
	Bottom []int `json:"bottom"`

	// CategoryRanks maps each category to its rank (1 = most preferred)
	CategoryRanks map[Category]int `json:"categoryRanks"`
}

// Rank returns the 1-based rank of shiftID within Top, or 0 if it is not present
func (p PreferenceSet) Rank(shiftID int) int {
	for i, id := range p.Top {
		if id == shiftID {
			return i + 1
		}
	}
	return 0
}

// InTop returns true if shiftID is one of the most-wanted shifts
func (p PreferenceSet) InTop(shiftID int) bool {
	return p.Rank(shiftID) > 0
}

// InBottom returns true if shiftID is one of the least-wanted shifts
func (p PreferenceSet) InBottom(shiftID int) bool {
	for _, id := range p.Bottom {
		if id == shiftID {
			return true
		}
	}
	return false
}

// Employee is a member of the roster
type Employee struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsManager bool   `json:"isManager"`
}
