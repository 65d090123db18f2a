package db

import "context"

// EmployeeStore defines the interface for roster database operations
type EmployeeStore interface {
	GetEmployees(ctx context.Context) ([]Employee, error)
	InsertEmployee(ctx context.Context, employee *Employee) error
	// DeleteEmployee returns false if no employee had the ID
	DeleteEmployee(ctx context.Context, id string) (bool, error)
}

// PreferenceStore defines the interface for preference database operations
type PreferenceStore interface {
	GetPreferences(ctx context.Context) ([]Preference, error)
	// UpsertPreferences replaces the stored preferences of each given employee
	UpsertPreferences(ctx context.Context, preferences []Preference) error
}

// SettingsStore defines the interface for round settings operations
type SettingsStore interface {
	GetSettings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, settings *Settings) error
}

// AllocationStore defines the interface for allocation run operations
type AllocationStore interface {
	// GetLatestRun returns nil with no error if nothing has been allocated
	GetLatestRun(ctx context.Context) (*AllocationRun, []Assignment, error)
	// SaveAllocationRun stores the run and its assignments and applies the
	// settings update atomically
	SaveAllocationRun(ctx context.Context, run *AllocationRun, assignments []Assignment, settings *Settings) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	EmployeeStore
	PreferenceStore
	SettingsStore
	AllocationStore
}
