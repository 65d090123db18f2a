package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/pkg/core/services"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate weekend shifts from submitted preferences",
		Long:  "Run the three phase allocation over the roster and save the result, locking preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")

			app.Logger.Debug("allocate command",
				zap.Bool("dry_run", dryRun),
				zap.Bool("force", force))

			result, err := services.AllocateShifts(app.Ctx, app.Database, app.Cfg, app.Logger, services.AllocateOptions{
				DryRun: dryRun,
				Force:  force,
				Now:    time.Now(),
			})
			if err != nil && !errors.Is(err, services.ErrInvalidAllocation) {
				return fmt.Errorf("allocation failed: %w", err)
			}

			names, nameErr := employeeNames(app)
			if nameErr != nil {
				return nameErr
			}

			// Display header
			fmt.Printf("\n🎯 Shift Allocation Results\n\n")
			if result.RunID != "" {
				fmt.Printf("Run ID:      %s\n", result.RunID)
			}
			fmt.Printf("Shifts:      %d over %d weekends\n", result.Catalog.Len(), result.Catalog.Weekends())
			switch {
			case dryRun:
				fmt.Printf("Mode:        🧪 DRY RUN (not saved)\n")
			case result.Committed && len(result.Violations) > 0:
				fmt.Printf("Status:      ⚠️  FORCED (saved despite validation errors)\n")
			case result.Committed:
				fmt.Printf("Status:      ✅ SUCCESS (saved to database)\n")
			default:
				fmt.Printf("Status:      ❌ FAILED (not saved)\n")
			}
			fmt.Println()

			if len(result.Violations) > 0 {
				fmt.Printf("⚠️  Validation Errors (%d):\n", len(result.Violations))
				for _, v := range result.Violations {
					fmt.Printf("  • %s\n", v)
				}
				fmt.Println()
			}

			if len(result.Outcome.Warnings) > 0 {
				fmt.Printf("ℹ️  Warnings (%d):\n", len(result.Outcome.Warnings))
				for _, w := range result.Outcome.Warnings {
					fmt.Printf("  • %s\n", w)
				}
				fmt.Println()
			}

			printSummary(result.Summary, names)

			switch {
			case dryRun:
				fmt.Println("💡 This was a dry run. Use without --dry-run to save the allocation.")
			case result.Committed:
				fmt.Println("✅ Allocation saved and preferences locked.")
			default:
				fmt.Println("❌ Allocation was not saved due to validation errors.")
				fmt.Println("💡 Use --force to save anyway.")
			}

			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().Bool("force", false, "Re-allocate a committed round, or save even if validation fails")

	return cmd
}

// employeeNames maps employee ID to display name
func employeeNames(app *AppContext) (map[string]string, error) {
	employees, err := services.ListEmployees(app.Ctx, app.Database, app.Logger)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return names, nil
}
