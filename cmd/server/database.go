package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/scry-review/internal/config"
	"github.com/phrazzld/scry-review/internal/platform/migrate"
	"github.com/phrazzld/scry-review/internal/platform/postgres"
	"github.com/phrazzld/scry-review/internal/platform/sqlite"
)

// openDatabase connects to the configured backend and returns the matching
// migration source. Migrations are not applied here.
func openDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*sql.DB, migrate.Source, error) {
	var (
		db  *sql.DB
		src migrate.Source
		err error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, src, fmt.Errorf("failed to open database connection: %w", err)
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
		src = postgres.Migrations
	case config.DriverSQLite:
		db, err = sql.Open(sqlite.DriverName, sqlite.DSN(cfg.URL))
		if err != nil {
			return nil, src, fmt.Errorf("failed to open database connection: %w", err)
		}
		// one writer; immediate transactions serialize on it
		db.SetMaxOpenConns(1)
		src = sqlite.Migrations
	default:
		return nil, src, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, src, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", "driver", cfg.Driver)
	return db, src, nil
}
