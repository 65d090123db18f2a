package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/pkg/db"
)

var validate = validator.New()

// NewEmployee is the input to AddEmployee
type NewEmployee struct {
	ID        string `json:"id" validate:"required,max=64,printascii,excludesall=/"`
	Name      string `json:"name" validate:"required,max=128"`
	IsManager bool   `json:"isManager"`
}

// AddEmployee adds an employee to the roster
func AddEmployee(ctx context.Context, store db.EmployeeStore, logger *zap.Logger, input NewEmployee) (*db.Employee, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.Name = strings.TrimSpace(input.Name)

	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEmployee, err)
	}
	if strings.ContainsFunc(input.ID, unicode.IsSpace) {
		return nil, fmt.Errorf("%w: id must not contain whitespace", ErrInvalidEmployee)
	}

	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	if slices.ContainsFunc(employees, func(e db.Employee) bool { return e.ID == input.ID }) {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeExists, input.ID)
	}

	employee := &db.Employee{
		ID:        input.ID,
		Name:      input.Name,
		IsManager: input.IsManager,
	}

	logger.Debug("Inserting employee",
		zap.String("employee_id", employee.ID),
		zap.Bool("is_manager", employee.IsManager))

	if err := store.InsertEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to insert employee: %w", err)
	}

	return employee, nil
}

// ListEmployees returns the roster ordered by ID
func ListEmployees(ctx context.Context, store db.EmployeeStore, logger *zap.Logger) ([]db.Employee, error) {
	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	slices.SortFunc(employees, func(a, b db.Employee) int {
		return strings.Compare(a.ID, b.ID)
	})

	logger.Debug("Fetched employees", zap.Int("count", len(employees)))

	return employees, nil
}

// RemoveEmployee deletes an employee and their preferences
func RemoveEmployee(ctx context.Context, store db.EmployeeStore, logger *zap.Logger, id string) error {
	logger.Debug("Removing employee", zap.String("employee_id", id))

	found, err := store.DeleteEmployee(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}

	return nil
}

// allocatableRoster returns the IDs of non-manager employees
func allocatableRoster(employees []db.Employee) []string {
	roster := make([]string, 0, len(employees))
	for _, e := range employees {
		if !e.IsManager {
			roster = append(roster, e.ID)
		}
	}
	slices.Sort(roster)
	return roster
}
