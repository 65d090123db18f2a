package db

import (
	"time"

	"github.com/jakechorley/weekend-shifts/pkg/core/model"
)

// Employee is a member of the roster
type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsManager bool      `json:"isManager"`
	CreatedAt time.Time `json:"createdAt"`
}

// Preference is an employee's submitted preference set
type Preference struct {
	EmployeeID    string         `json:"employeeId"`
	Top           []int          `json:"top"`
	Bottom        []int          `json:"bottom"`
	CategoryRanks map[string]int `json:"categoryRanks"`
	SubmittedAt   time.Time      `json:"submittedAt"`
}

// PreferenceSet converts the stored record into the engine representation.
// Unknown category keys are kept; the engine ignores them.
func (p Preference) PreferenceSet() model.PreferenceSet {
	ranks := make(map[model.Category]int, len(p.CategoryRanks))
	for category, rank := range p.CategoryRanks {
		ranks[model.Category(category)] = rank
	}
	return model.PreferenceSet{
		Top:           p.Top,
		Bottom:        p.Bottom,
		CategoryRanks: ranks,
	}
}

// Settings is the single row of round-wide state
type Settings struct {
	// Deadline is when preference submission closes (nil means no deadline)
	Deadline *time.Time `json:"deadline"`

	// IsLocked blocks non-manager preference edits regardless of the deadline
	IsLocked bool `json:"isLocked"`

	// AllocatedAt is set when an allocation run has been committed
	AllocatedAt *time.Time `json:"allocatedAt"`
}

// AllocationRun is a committed allocation
type AllocationRun struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Seed      int64     `json:"seed"`
	Warnings  []string  `json:"warnings"`
}

// Assignment is one shift held by one employee in a run
type Assignment struct {
	RunID      string `json:"runId"`
	EmployeeID string `json:"employeeId"`
	ShiftID    int    `json:"shiftId"`

	// Position is 0 for the employee's first shift and 1 for the second
	Position int `json:"position"`

	Phase  int    `json:"phase"`
	Source string `json:"source"`

	// Rank is the top list rank, 0 when the shift was not picked from the top list
	Rank int `json:"rank"`
}
