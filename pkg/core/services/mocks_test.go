package services

import (
	"context"
	"slices"
	"time"

	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// mockStore implements db.Database in memory for testing
type mockStore struct {
	employees   []db.Employee
	preferences []db.Preference
	settings    db.Settings
	runs        []db.AllocationRun
	assignments map[string][]db.Assignment

	getEmployeesErr      error
	insertEmployeeErr    error
	deleteEmployeeErr    error
	getPreferencesErr    error
	upsertPreferencesErr error
	getSettingsErr       error
	updateSettingsErr    error
	getLatestRunErr      error
	saveRunErr           error
}

var _ db.Database = (*mockStore)(nil)

func (m *mockStore) GetEmployees(ctx context.Context) ([]db.Employee, error) {
	if m.getEmployeesErr != nil {
		return nil, m.getEmployeesErr
	}
	return slices.Clone(m.employees), nil
}

func (m *mockStore) InsertEmployee(ctx context.Context, employee *db.Employee) error {
	if m.insertEmployeeErr != nil {
		return m.insertEmployeeErr
	}
	m.employees = append(m.employees, *employee)
	return nil
}

func (m *mockStore) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	if m.deleteEmployeeErr != nil {
		return false, m.deleteEmployeeErr
	}
	before := len(m.employees)
	m.employees = slices.DeleteFunc(m.employees, func(e db.Employee) bool { return e.ID == id })
	m.preferences = slices.DeleteFunc(m.preferences, func(p db.Preference) bool { return p.EmployeeID == id })
	return len(m.employees) < before, nil
}

func (m *mockStore) GetPreferences(ctx context.Context) ([]db.Preference, error) {
	if m.getPreferencesErr != nil {
		return nil, m.getPreferencesErr
	}
	return slices.Clone(m.preferences), nil
}

func (m *mockStore) UpsertPreferences(ctx context.Context, preferences []db.Preference) error {
	if m.upsertPreferencesErr != nil {
		return m.upsertPreferencesErr
	}
	for _, p := range preferences {
		m.preferences = slices.DeleteFunc(m.preferences, func(existing db.Preference) bool {
			return existing.EmployeeID == p.EmployeeID
		})
		m.preferences = append(m.preferences, p)
	}
	return nil
}

func (m *mockStore) GetSettings(ctx context.Context) (*db.Settings, error) {
	if m.getSettingsErr != nil {
		return nil, m.getSettingsErr
	}
	settings := m.settings
	return &settings, nil
}

func (m *mockStore) UpdateSettings(ctx context.Context, settings *db.Settings) error {
	if m.updateSettingsErr != nil {
		return m.updateSettingsErr
	}
	m.settings = *settings
	return nil
}

func (m *mockStore) GetLatestRun(ctx context.Context) (*db.AllocationRun, []db.Assignment, error) {
	if m.getLatestRunErr != nil {
		return nil, nil, m.getLatestRunErr
	}
	if len(m.runs) == 0 {
		return nil, nil, nil
	}
	run := m.runs[len(m.runs)-1]
	return &run, slices.Clone(m.assignments[run.ID]), nil
}

func (m *mockStore) SaveAllocationRun(ctx context.Context, run *db.AllocationRun, assignments []db.Assignment, settings *db.Settings) error {
	if m.saveRunErr != nil {
		return m.saveRunErr
	}
	if m.assignments == nil {
		m.assignments = make(map[string][]db.Assignment)
	}
	m.runs = append(m.runs, *run)
	m.assignments[run.ID] = slices.Clone(assignments)
	m.settings = *settings
	return nil
}

// testConfig returns a production-shaped config over a 20 weekend round
func testConfig() *config.Config {
	return &config.Config{
		StartDate:             "2025-12-13",
		Weekends:              20,
		DefaultCapacity:       1,
		TopCount:              12,
		BottomCount:           6,
		DatabaseURL:           "postgres://localhost:5432/weekend_shifts_test",
		ServerAddress:         ":8080",
		DeadlineExtensionDays: 7,
		Timezone:              "America/New_York",
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func makeEmployees(ids ...string) []db.Employee {
	result := make([]db.Employee, 0, len(ids))
	for _, id := range ids {
		result = append(result, db.Employee{ID: id, Name: "Employee " + id})
	}
	return result
}
