package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/weekend-shifts/pkg/core/services"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// SettingsCmd creates the settings command
func SettingsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the submission deadline and lock state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := services.GetSettings(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			return printSettings(app, settings)
		},
	}
}

// SetDeadlineCmd creates the setDeadline command
func SetDeadlineCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setDeadline <deadline>",
		Short: `Set the preference deadline ("2006-01-02 15:04" in the configured timezone, or RFC 3339)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := app.Cfg.Location()
			if err != nil {
				return err
			}

			deadline, err := parseDeadline(args[0], loc)
			if err != nil {
				return err
			}

			settings, err := services.SetDeadline(app.Ctx, app.Database, app.Logger, deadline)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Deadline updated\n")
			return printSettings(app, settings)
		},
	}
}

// LockCmd creates the lock command
func LockCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock preferences so employees can no longer edit them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := services.LockPreferences(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n🔒 Preferences locked\n")
			return printSettings(app, settings)
		},
	}
}

// UnlockCmd creates the unlock command
func UnlockCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Unlock preferences and extend the deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := services.UnlockPreferences(app.Ctx, app.Database, app.Cfg, app.Logger, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n🔓 Preferences unlocked\n")
			return printSettings(app, settings)
		},
	}
}

func printSettings(app *AppContext, settings *db.Settings) error {
	loc, err := app.Cfg.Location()
	if err != nil {
		return err
	}

	deadline := "not set"
	if settings.Deadline != nil {
		deadline = services.FormatDeadline(*settings.Deadline, loc)
	}

	state := "open"
	if services.PreferencesLocked(settings, time.Now()) {
		state = "locked"
	}

	allocated := "no"
	if settings.AllocatedAt != nil {
		allocated = services.FormatDeadline(*settings.AllocatedAt, loc)
	}

	fmt.Printf("\nDeadline:    %s\n", deadline)
	fmt.Printf("Preferences: %s\n", state)
	fmt.Printf("Allocated:   %s\n\n", allocated)

	return nil
}
