package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/cmd/cli/commands"
	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/postgres"
	"github.com/jakechorley/weekend-shifts/pkg/utils/logging"
)

var app = &commands.AppContext{}

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Weekend Shifts CLI - Collect preferences and allocate weekend shifts",
		Long:  `A CLI tool for managing the roster, shift preferences and the weekend shift allocation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Postgres != nil {
				app.Postgres.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&app.Env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.ListShiftsCmd(app))
	rootCmd.AddCommand(commands.AddEmployeeCmd(app))
	rootCmd.AddCommand(commands.RemoveEmployeeCmd(app))
	rootCmd.AddCommand(commands.ListEmployeesCmd(app))
	rootCmd.AddCommand(commands.SubmitPreferencesCmd(app))
	rootCmd.AddCommand(commands.PopulateTestPreferencesCmd(app))
	rootCmd.AddCommand(commands.SettingsCmd(app))
	rootCmd.AddCommand(commands.SetDeadlineCmd(app))
	rootCmd.AddCommand(commands.LockCmd(app))
	rootCmd.AddCommand(commands.UnlockCmd(app))
	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.ViewAssignmentsCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and database
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(app.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", app.Env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load(app.Env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("start_date", app.Cfg.StartDate),
		zap.Int("weekends", app.Cfg.Weekends))

	// Connect to database
	app.Logger.Info("Connecting to database")
	app.Postgres, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.Database = app.Postgres
	app.Logger.Info("Database initialized successfully")

	return nil
}
