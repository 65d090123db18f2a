package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// GetEmployees retrieves all employees ordered by ID
func (d *DB) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, is_manager, created_at
		FROM employee
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []db.Employee{}
	for rows.Next() {
		var e db.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.IsManager, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// InsertEmployee inserts a new employee record
func (d *DB) InsertEmployee(ctx context.Context, employee *db.Employee) error {
	err := d.pool.QueryRow(ctx, `
		INSERT INTO employee (id, name, is_manager)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, employee.ID, employee.Name, employee.IsManager).Scan(&employee.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// DeleteEmployee removes an employee and their preferences
func (d *DB) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	tag, err := d.pool.Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete employee: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
