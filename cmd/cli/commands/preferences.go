package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/pkg/core/model"
	"github.com/jakechorley/weekend-shifts/pkg/core/services"
)

// SubmitPreferencesCmd creates the submitPreferences command
func SubmitPreferencesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submitPreferences <employee_id>",
		Short: "Submit shift preferences for an employee",
		Long: `Submit shift preferences for an employee.

--top takes the most wanted shift IDs in order (most wanted first) and --bottom the least wanted,
both as comma separated lists. Category ranks (1 = most preferred) are optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topFlag, _ := cmd.Flags().GetString("top")
			bottomFlag, _ := cmd.Flags().GetString("bottom")
			override, _ := cmd.Flags().GetBool("override")

			top, err := parseShiftList(topFlag)
			if err != nil {
				return fmt.Errorf("invalid --top: %w", err)
			}
			bottom, err := parseShiftList(bottomFlag)
			if err != nil {
				return fmt.Errorf("invalid --bottom: %w", err)
			}

			ranks := map[string]int{}
			for _, category := range model.Categories {
				rank, _ := cmd.Flags().GetInt(categoryFlag(category))
				if rank != 0 {
					ranks[string(category)] = rank
				}
			}

			preference, err := services.SubmitPreferences(
				app.Ctx,
				app.Database,
				app.Cfg,
				app.Logger,
				args[0],
				services.PreferenceSubmission{Top: top, Bottom: bottom, CategoryRanks: ranks},
				time.Now(),
				override,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Preferences saved for %s\n", preference.EmployeeID)
			fmt.Printf("Top:    %v\n", preference.Top)
			fmt.Printf("Bottom: %v\n\n", preference.Bottom)

			return nil
		},
	}

	cmd.Flags().String("top", "", "Most wanted shift IDs, most wanted first (e.g. 0,5,12)")
	cmd.Flags().String("bottom", "", "Least wanted shift IDs (e.g. 3,4,9)")
	for _, category := range model.Categories {
		cmd.Flags().Int(categoryFlag(category), 0, fmt.Sprintf("Rank of %s shifts (1-3)", category))
	}
	cmd.Flags().Bool("override", false, "Submit even if preferences are locked (manager edit)")

	return cmd
}

// PopulateTestPreferencesCmd creates the populateTestPreferences command
func PopulateTestPreferencesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populateTestPreferences",
		Short: "Fill in random complete preferences for every employee (testing only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *int64
			if cmd.Flags().Changed("seed") {
				s, _ := cmd.Flags().GetInt64("seed")
				seed = &s
			}

			app.Logger.Debug("populateTestPreferences command", zap.Int64p("seed", seed))

			preferences, err := services.PopulateTestPreferences(app.Ctx, app.Database, app.Cfg, app.Logger, seed)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Populated preferences for %d employees\n\n", len(preferences))
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for the generated preferences")

	return cmd
}

// categoryFlag turns a category into its flag name, e.g. sunday-morning
func categoryFlag(category model.Category) string {
	return strings.ReplaceAll(string(category), "_", "-")
}
