package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/internal/config"
	"github.com/jakechorley/duty-roster/pkg/db"
	"github.com/jakechorley/duty-roster/pkg/metrics"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg *config.Config

	// Database is nil when no databaseURL is configured
	Database db.Database

	// Migrator applies schema migrations; nil alongside Database
	Migrator Migrator

	Recorder metrics.Recorder
	Registry *prometheus.Registry
	Logger   *zap.Logger
	Ctx      context.Context
}

// Migrator applies pending schema migrations and returns the applied file names
type Migrator interface {
	RunMigrations(ctx context.Context) ([]string, error)
}

// requireDatabase returns the database or an error naming the command that needed it
func (a *AppContext) requireDatabase(command string) (db.Database, error) {
	if a.Database == nil {
		return nil, fmt.Errorf("%s needs a database: set databaseURL in the config", command)
	}
	return a.Database, nil
}
