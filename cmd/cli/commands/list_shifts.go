package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listShifts",
		Short: "List the shift catalog for the configured round",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := app.Cfg.Catalog()
			if err != nil {
				return err
			}

			fmt.Printf("\n📅 %d shifts over %d weekends (starting %s):\n\n", catalog.Len(), catalog.Weekends(), app.Cfg.StartDate)
			fmt.Printf("%-4s  %-4s  %-10s  %-8s  %-11s  %s\n", "ID", "Week", "Date", "Day", "Time", "Capacity")
			for _, shift := range catalog.Shifts() {
				fmt.Printf("%-4d  %-4d  %-10s  %-8s  %-11s  %d\n",
					shift.ID,
					shift.Week,
					shift.DateString(),
					shift.Day,
					shift.TimeWindow(),
					shift.Capacity)
			}
			fmt.Println()

			return nil
		},
	}
}
