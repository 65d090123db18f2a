package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/weekend-shifts/pkg/core/services"
)

// ViewAssignmentsCmd creates the viewAssignments command
func ViewAssignmentsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewAssignments",
		Short: "View the latest saved allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			byShift, _ := cmd.Flags().GetBool("by-shift")

			view, err := services.ViewAssignments(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n📋 Allocation %s (%s)\n\n", view.Run.ID, view.Run.CreatedAt.Format("2006-01-02 15:04"))

			names := make(map[string]string, len(view.Employees))
			for _, e := range view.Employees {
				names[e.EmployeeID] = e.Name
			}

			if byShift {
				fmt.Printf("%s%-4s  %-30s  %s%s\n", colorBold, "ID", "Shift", "Employees", colorReset)
				for _, holders := range view.Shifts {
					held := make([]string, 0, len(holders.EmployeeIDs))
					for _, id := range holders.EmployeeIDs {
						held = append(held, names[id])
					}
					employees := fmt.Sprintf("%s(vacant)%s", colorYellow, colorReset)
					if len(held) > 0 {
						employees = strings.Join(held, ", ")
					}
					fmt.Printf("%-4d  %-30s  %s\n", holders.Shift.ID, holders.Shift.String(), employees)
				}
				fmt.Println()
			} else {
				fmt.Printf("%s%-24s  %s%s\n", colorBold, "Employee", "Shifts", colorReset)
				for _, e := range view.Employees {
					shifts := make([]string, 0, len(e.Shifts))
					for _, s := range e.Shifts {
						shifts = append(shifts, s.Shift.String())
					}
					assigned := "—"
					if len(shifts) > 0 {
						assigned = strings.Join(shifts, "; ")
					}
					fmt.Printf("%-24s  %s\n", e.Name, assigned)
				}
				fmt.Println()
			}

			if len(view.Run.Warnings) > 0 {
				fmt.Printf("ℹ️  Warnings (%d):\n", len(view.Run.Warnings))
				for _, w := range view.Run.Warnings {
					fmt.Printf("  • %s\n", w)
				}
				fmt.Println()
			}

			printSummary(view.Summary, names)

			return nil
		},
	}

	cmd.Flags().Bool("by-shift", false, "List every shift with its holders instead of every employee")

	return cmd
}
