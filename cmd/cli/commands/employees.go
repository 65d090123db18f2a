package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/weekend-shifts/pkg/core/services"
)

// AddEmployeeCmd creates the addEmployee command
func AddEmployeeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addEmployee <employee_id> <name>",
		Short: "Add an employee to the roster",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _ := cmd.Flags().GetBool("manager")

			employee, err := services.AddEmployee(app.Ctx, app.Database, app.Logger, services.NewEmployee{
				ID:        args[0],
				Name:      strings.Join(args[1:], " "),
				IsManager: manager,
			})
			if err != nil {
				return err
			}

			role := "employee"
			if employee.IsManager {
				role = "manager"
			}
			fmt.Printf("\n✓ Added %s %s (%s)\n\n", role, employee.Name, employee.ID)

			return nil
		},
	}

	cmd.Flags().Bool("manager", false, "Add as a manager (managers are not allocated shifts)")

	return cmd
}

// RemoveEmployeeCmd creates the removeEmployee command
func RemoveEmployeeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeEmployee <employee_id>",
		Short: "Remove an employee and their preferences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.RemoveEmployee(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Removed %s\n\n", args[0])
			return nil
		},
	}
}

// ListEmployeesCmd creates the listEmployees command
func ListEmployeesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listEmployees",
		Short: "List the roster with preference submission status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := services.ListEmployees(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			preferences, err := services.ListPreferences(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}
			submitted := make(map[string]bool, len(preferences))
			for _, p := range preferences {
				submitted[p.EmployeeID] = true
			}

			fmt.Printf("\nFound %d employees:\n\n", len(employees))
			for _, e := range employees {
				status := "no preferences"
				switch {
				case e.IsManager:
					status = "manager"
				case submitted[e.ID]:
					status = "submitted"
				}
				fmt.Printf("- %s (%s) - %s\n", e.Name, e.ID, status)
			}
			fmt.Println()

			return nil
		},
	}
}
