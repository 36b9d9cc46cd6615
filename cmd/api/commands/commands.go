package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/noruno/platform/internal/adapters/filestore"
	"github.com/noruno/platform/internal/adapters/mail"
	"github.com/noruno/platform/internal/adapters/repository"
	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/infrastructure/config"
	"github.com/noruno/platform/internal/infrastructure/database"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/infrastructure/metrics"
	"github.com/noruno/platform/internal/infrastructure/server"
	"github.com/noruno/platform/internal/ports"
)

// Build information, set with -ldflags at release time.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

// ConfigFile is bound to the root --config flag
var ConfigFile string

// runtime is what every command needs after startup
type runtime struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	repos  ports.Repositories
	health server.HealthChecker
}

func (r *runtime) close() {
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			r.log.Warnw("Failed to close database", "error", err)
		}
	}
	_ = r.log.Close()
}

// bootstrap loads configuration and opens the configured storage backend.
// The relational backend is migrated to the latest schema before use.
func bootstrap(quiet bool) (*runtime, error) {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.NewNop()
	if !quiet {
		appLogger, err = logger.New(cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	rt := &runtime{cfg: cfg, log: appLogger}
	switch cfg.Storage.Backend {
	case config.BackendJSON:
		rt.repos = filestore.NewRepositories(cfg.Storage.DataDir)
	default:
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate("up", 0); err != nil {
			db.Close()
			return nil, err
		}
		rt.db = db
		rt.health = db
		rt.repos = repository.NewRepositories(db)
	}

	appLogger.Infow("Storage ready",
		"backend", cfg.Storage.Backend,
		"data_dir", cfg.Storage.DataDir,
	)
	return rt, nil
}

func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(cfg.Database, cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// loadApp bootstraps storage and loads every collection into memory
func loadApp(ctx context.Context, quiet bool) (*runtime, *services.App, error) {
	rt, err := bootstrap(quiet)
	if err != nil {
		return nil, nil, err
	}

	app, err := services.NewApp(ctx, rt.repos, mail.NewSMTPMailer(rt.cfg.Mail), rt.log, metrics.New())
	if err != nil {
		rt.close()
		return nil, nil, fmt.Errorf("failed to load application state: %w", err)
	}
	return rt, app, nil
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the reminder scheduler",
		Long:  "Start the local HTTP API with all configured routes and middleware. The reminder scheduler runs alongside it unless disabled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer rt.close()

	m := metrics.New()
	app, err := services.NewApp(ctx, rt.repos, mail.NewSMTPMailer(rt.cfg.Mail), rt.log, m)
	if err != nil {
		return fmt.Errorf("failed to load application state: %w", err)
	}

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	var schedulerDone <-chan struct{}
	if rt.cfg.Scheduler.Enabled {
		schedulerDone = runInBackground(schedulerCtx, func(ctx context.Context) {
			app.Notifications.Run(ctx, rt.cfg.Scheduler.Interval)
		})
	} else {
		done := make(chan struct{})
		close(done)
		schedulerDone = done
		rt.log.Warn("Reminder scheduler disabled")
	}
	// Runs before rt.close so a tick never persists into a closed database.
	defer func() {
		stopScheduler()
		<-schedulerDone
	}()

	srv := server.New(rt.cfg, app, services.NewTokenService(rt.cfg.Security), m, rt.health, rt.log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	rt.log.Infow("Noruno API started",
		"address", rt.cfg.Server.GetAddr(),
		"environment", rt.cfg.App.Environment,
		"version", rt.cfg.App.Version,
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// runInBackground runs fn in its own goroutine. The returned channel is
// closed once fn has returned.
func runInBackground(ctx context.Context, fn func(ctx context.Context)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(ctx)
	}()
	return done
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	var steps int
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "up", steps)
		},
	}
	upCmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to apply (0 = all)")

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "down", steps)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back (0 = all)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db *database.DB) error {
				version, dirty, err := db.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
				return nil
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

func runMigration(cmd *cobra.Command, direction string, steps int) error {
	return withDatabase(func(db *database.DB) error {
		if err := db.Migrate(direction, steps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
		return nil
	})
}

// withDatabase opens the relational backend without migrating it
func withDatabase(fn func(db *database.DB) error) error {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Storage.Backend == config.BackendJSON {
		return errors.New("storage backend is json, nothing to migrate")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Noruno version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Noruno %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}
