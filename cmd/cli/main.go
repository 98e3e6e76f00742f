package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-roster/cmd/cli/commands"
	"github.com/jakechorley/duty-roster/internal/config"
	"github.com/jakechorley/duty-roster/pkg/metrics"
	"github.com/jakechorley/duty-roster/pkg/postgres"
	"github.com/jakechorley/duty-roster/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
	pgDB    *postgres.DB
	stop    context.CancelFunc
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Duty roster CLI - Build monthly duty rosters",
		Long:  `A CLI tool for solving, drafting, validating and storing monthly duty rosters.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
		SilenceUsage: true,
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.SolveCmd(app))
	rootCmd.AddCommand(commands.DraftCmd(app))
	rootCmd.AddCommand(commands.ValidateCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.CheckConfigCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		shutdown()
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and metrics
func initApp(cmd *cobra.Command) error {
	var err error
	app.Ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Initialize logger
	var logFile string
	app.Logger, logFile, err = logging.InitLogger(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("command", cmd.Name()),
		zap.String("log_file", logFile))
	cmd.Flags().Visit(func(f *pflag.Flag) {
		app.Logger.Debug("Flag set", zap.String("flag", f.Name), zap.String("value", f.Value.String()))
	})

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Int("shifts", len(app.Cfg.Shifts)),
		zap.Int("leave_codes", len(app.Cfg.LeaveCodes)),
		zap.Int("closures", len(app.Cfg.Closures)))

	// Metrics
	app.Registry = prometheus.NewRegistry()
	app.Recorder = metrics.NewPrometheus(app.Registry, "")

	// Database is optional; solve and draft can run without one
	if app.Cfg.DatabaseURL == "" {
		app.Logger.Info("No databaseURL configured, runs will not be stored")
		return nil
	}
	app.Logger.Info("Connecting to database")
	pgDB, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.Database = pgDB
	app.Migrator = pgDB
	app.Logger.Info("Database initialized successfully")

	return nil
}

// shutdown flushes metrics and releases resources acquired by initApp
func shutdown() {
	if app.Cfg != nil && app.Cfg.MetricsFile != "" && app.Registry != nil {
		if err := metrics.WriteTextfile(app.Cfg.MetricsFile, app.Registry); err != nil {
			app.Logger.Warn("Failed to write metrics", zap.Error(err))
		} else {
			app.Logger.Debug("Metrics written", zap.String("path", app.Cfg.MetricsFile))
		}
	}
	if pgDB != nil {
		pgDB.Close()
		pgDB = nil
	}
	if stop != nil {
		stop()
		stop = nil
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
	app.Cfg = nil
}
