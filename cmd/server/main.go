// Package main implements the entry point for the scry-review server, which
// schedules spaced-repetition reviews of cards and serves the review API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-review/internal/config"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/platform/migrate"
	"github.com/spf13/pflag"
)

// options are the command line flags.
type options struct {
	configPath string
	migrateCmd string
	verbose    bool
}

var errUsage = errors.New("usage error")

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("scry-review", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.migrateCmd, "migrate", "",
		"run a migration command (up, down, reset, status, version) and exit")
	fs.BoolVar(&opts.verbose, "verbose", false, "log at debug level")

	if err := fs.Parse(args); err != nil {
		return opts, fmt.Errorf("%w: %w", errUsage, err)
	}
	if opts.migrateCmd != "" && !migrate.ValidCommand(opts.migrateCmd) {
		return opts, fmt.Errorf("%w: unknown migrate command %q", errUsage, opts.migrateCmd)
	}
	return opts, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("scry-review failed", "error", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run loads configuration, opens the database and either executes a
// migration command or serves HTTP until ctx is canceled.
func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.verbose {
		cfg.Server.LogLevel = "debug"
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"tracing_enabled", cfg.Tracing.Enabled)

	db, src, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", "error", err)
		}
	}()

	if opts.migrateCmd != "" {
		return migrate.Run(ctx, db, src, opts.migrateCmd, log)
	}
	if err := migrate.Run(ctx, db, src, migrate.CommandUp, log); err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
