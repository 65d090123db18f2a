package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/internal/config"
	"github.com/jakechorley/weekend-shifts/pkg/db"
	"github.com/jakechorley/weekend-shifts/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Postgres *postgres.DB
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
}
