package services

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/core/allocator"
	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
	"github.com/jakechorley/weekend-shifts/pkg/core/model"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// ViewAssignmentsStore defines the database operations needed to view assignments
type ViewAssignmentsStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetPreferences(ctx context.Context) ([]db.Preference, error)
	GetLatestRun(ctx context.Context) (*db.AllocationRun, []db.Assignment, error)
}

// AssignedShift is a shift held by an employee, with how it was picked
type AssignedShift struct {
	Shift  model.Shift `json:"shift"`
	Phase  int         `json:"phase"`
	Source string      `json:"source"`
	Rank   int         `json:"rank,omitempty"`
}

// EmployeeAssignments lists the shifts held by one employee
type EmployeeAssignments struct {
	EmployeeID string          `json:"employeeId"`
	Name       string          `json:"name"`
	Shifts     []AssignedShift `json:"shifts"`
}

// ShiftHolders lists who holds one shift
type ShiftHolders struct {
	Shift       model.Shift `json:"shift"`
	EmployeeIDs []string    `json:"employeeIds"`
}

// AssignmentsView is the latest committed allocation joined with the catalog
type AssignmentsView struct {
	Run       *db.AllocationRun     `json:"run"`
	Employees []EmployeeAssignments `json:"employees"`
	Shifts    []ShiftHolders        `json:"shifts"`
	Summary   allocator.Summary     `json:"summary"`
}

// ViewAssignments loads the latest committed allocation
func ViewAssignments(ctx context.Context, store ViewAssignmentsStore, cfg *config.Config, logger *zap.Logger) (*AssignmentsView, error) {
	run, assignments, err := store.GetLatestRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest allocation run: %w", err)
	}
	if run == nil {
		return nil, ErrNotAllocated
	}

	logger.Debug("Loaded allocation run",
		zap.String("run_id", run.ID),
		zap.Int("assignments", len(assignments)))

	c, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build shift catalog: %w", err)
	}

	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	stored, err := store.GetPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}
	preferences := make(map[string]model.PreferenceSet, len(stored))
	for _, p := range stored {
		preferences[p.EmployeeID] = p.PreferenceSet()
	}

	outcome := outcomeFromAssignments(c, allocatableRoster(employees), assignments)

	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	view := &AssignmentsView{
		Run:       run,
		Employees: []EmployeeAssignments{},
		Shifts:    []ShiftHolders{},
		Summary:   allocator.Summarize(c, preferences, outcome),
	}

	byEmployee := make(map[string][]db.Assignment)
	for _, a := range byPosition(assignments) {
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a)
	}

	employeeIDs := make([]string, 0, len(outcome.Assignments))
	for employeeID := range outcome.Assignments {
		employeeIDs = append(employeeIDs, employeeID)
	}
	slices.Sort(employeeIDs)

	for _, employeeID := range employeeIDs {
		row := EmployeeAssignments{
			EmployeeID: employeeID,
			Name:       names[employeeID],
			Shifts:     []AssignedShift{},
		}
		for _, a := range byEmployee[employeeID] {
			shift, ok := c.Lookup(a.ShiftID)
			if !ok {
				logger.Warn("Assignment refers to a shift outside the catalog",
					zap.String("employee_id", employeeID),
					zap.Int("shift_id", a.ShiftID))
				continue
			}
			row.Shifts = append(row.Shifts, AssignedShift{Shift: shift, Phase: a.Phase, Source: a.Source, Rank: a.Rank})
		}
		view.Employees = append(view.Employees, row)
	}

	for _, shift := range c.Shifts() {
		view.Shifts = append(view.Shifts, ShiftHolders{Shift: shift, EmployeeIDs: outcome.Occupancy[shift.ID]})
	}

	return view, nil
}

// outcomeFromAssignments rebuilds the assignment and occupancy maps of a stored run.
// Roster employees without assignments are included with no shifts.
func outcomeFromAssignments(c *catalog.Catalog, roster []string, assignments []db.Assignment) *allocator.AllocationOutcome {
	outcome := &allocator.AllocationOutcome{
		Assignments: allocator.Assignments{},
		Occupancy:   allocator.Occupancy{},
	}
	for _, employeeID := range roster {
		outcome.Assignments[employeeID] = []int{}
	}
	for _, shift := range c.Shifts() {
		outcome.Occupancy[shift.ID] = []string{}
	}

	for _, a := range byPosition(assignments) {
		outcome.Assignments[a.EmployeeID] = append(outcome.Assignments[a.EmployeeID], a.ShiftID)
		if _, ok := c.Lookup(a.ShiftID); ok {
			outcome.Occupancy[a.ShiftID] = append(outcome.Occupancy[a.ShiftID], a.EmployeeID)
		}
	}

	return outcome
}

// byPosition orders stored assignments so each employee's shifts come back in assignment order
func byPosition(assignments []db.Assignment) []db.Assignment {
	ordered := slices.Clone(assignments)
	slices.SortStableFunc(ordered, func(a, b db.Assignment) int {
		return a.Position - b.Position
	})
	return ordered
}
