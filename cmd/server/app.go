package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-review/internal/api"
	"github.com/phrazzld/scry-review/internal/clock"
	"github.com/phrazzld/scry-review/internal/config"
	"github.com/phrazzld/scry-review/internal/domain/srs"
	"github.com/phrazzld/scry-review/internal/platform/postgres"
	"github.com/phrazzld/scry-review/internal/platform/sqlite"
	"github.com/phrazzld/scry-review/internal/platform/tracing"
	"github.com/phrazzld/scry-review/internal/service/card_review"
	"github.com/phrazzld/scry-review/internal/service/review_stats"
	"github.com/phrazzld/scry-review/internal/store"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	clock  clock.Clock

	cardStore    store.CardStore
	sessionStore store.ReviewSessionStore
	statsStore   store.StatsStore

	srsService    srs.Service
	reviewService card_review.Service
	statsService  review_stats.Service

	shutdownTracing tracing.ShutdownFunc
}

// newApplication wires stores and services for the configured driver. The
// schema must already be migrated.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	return newApplicationWithClock(ctx, cfg, logger, db, clock.System{})
}

func newApplicationWithClock(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	clk clock.Clock,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		clock:  clk,
	}

	var err error
	app.shutdownTracing, err = tracing.Setup(ctx, cfg.Tracing, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		app.cardStore = postgres.NewPostgresCardStore(db, logger)
		app.sessionStore = postgres.NewPostgresReviewSessionStore(db, logger)
		app.statsStore = postgres.NewPostgresStatsStore(db, logger)
	case config.DriverSQLite:
		app.cardStore = sqlite.NewCardStore(db, logger)
		app.sessionStore = sqlite.NewReviewSessionStore(db, logger)
		app.statsStore = sqlite.NewStatsStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:     cfg.SRS.MinEaseFactor,
		DefaultEaseFactor: cfg.SRS.DefaultEaseFactor,
		InitialInterval:   cfg.SRS.InitialInterval,
		SecondInterval:    cfg.SRS.SecondInterval,
		MaxIntervalDays:   cfg.SRS.MaxIntervalDays,
	}))

	app.reviewService = card_review.NewService(
		db,
		app.cardStore,
		app.sessionStore,
		app.srsService,
		clk,
		logger,
	)

	location, err := cfg.Stats.Location()
	if err != nil {
		return nil, err
	}
	app.statsService = review_stats.NewService(app.statsStore, clk, location, logger)

	logger.Info("application initialized",
		"default_ease_factor", app.srsService.DefaultEaseFactor(),
		"min_ease_factor", app.srsService.MinEaseFactor(),
		"stats_timezone", location.String())
	return app, nil
}

// handler builds the HTTP handler for the application.
func (app *application) handler() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Cards:          api.NewCardHandler(app.reviewService, app.logger),
		Stats:          api.NewStatsHandler(app.statsService, app.logger),
		DB:             app.db,
		RequestTimeout: app.config.Server.RequestTimeout(),
		Logger:         app.logger,
	})
}

// Run serves HTTP until ctx is canceled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	if err := app.startHTTPServer(ctx, app.handler()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup flushes traces. The database is closed by the caller that opened it.
func (app *application) cleanup() {
	if app.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.shutdownTracing(ctx); err != nil {
			app.logger.Error("error shutting down tracing", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
