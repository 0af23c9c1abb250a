// Package review_stats summarizes review activity for dashboards.
package review_stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-review/internal/clock"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// ErrStatsUnavailable indicates that a statistics query failed. The store's
// error stays in the chain.
var ErrStatsUnavailable = errors.New("review statistics unavailable")

// Service computes review statistics.
type Service interface {
	// GetStats summarizes completed reviews since local midnight today and
	// over the rolling week that ends today, plus the current due count and
	// the all-time session type distribution.
	GetStats(ctx context.Context) (*domain.ReviewStats, error)
}

type service struct {
	stats    store.StatsStore
	clock    clock.Clock
	location *time.Location
	logger   *slog.Logger
}

// NewService creates a stats service. Day boundaries are taken in location;
// nil means the process local zone.
func NewService(
	stats store.StatsStore,
	clk clock.Clock,
	location *time.Location,
	logger *slog.Logger,
) Service {
	if stats == nil {
		panic("stats cannot be nil")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		stats:    stats,
		clock:    clk,
		location: location,
		logger:   logger.With(slog.String("component", "review_stats_service")),
	}
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// GetStats implements Service.GetStats.
func (s *service) GetStats(ctx context.Context) (_ *domain.ReviewStats, err error) {
	ctx, span := otel.Tracer("github.com/phrazzld/scry-review/internal/service/review_stats").
		Start(ctx, "review_stats.GetStats")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.clock.Now()
	today := StartOfDay(now, s.location)
	// Calendar midnight seven days back, so a DST change inside the week
	// moves the window by an hour instead of starting it at 23:00.
	weekStart := today.AddDate(0, 0, -7)

	fail := func(what string, err error) error {
		log.Error("failed to compute review statistics",
			slog.String("query", what),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s: %w", ErrStatsUnavailable, what, err)
	}

	stats := &domain.ReviewStats{}

	if stats.TodayReviews, err = s.stats.CountCompletedSince(ctx, today); err != nil {
		return nil, fail("today reviews", err)
	}
	if stats.TodayDistinctCards, err = s.stats.CountDistinctCardsSince(ctx, today); err != nil {
		return nil, fail("today distinct cards", err)
	}
	if stats.WeekReviews, err = s.stats.CountCompletedSince(ctx, weekStart); err != nil {
		return nil, fail("week reviews", err)
	}
	if stats.WeekDistinctCards, err = s.stats.CountDistinctCardsSince(ctx, weekStart); err != nil {
		return nil, fail("week distinct cards", err)
	}
	if stats.AverageQuality, err = s.stats.AverageQualitySince(ctx, weekStart); err != nil {
		return nil, fail("average quality", err)
	}
	if stats.DueCardsCount, err = s.stats.CountDue(ctx, now); err != nil {
		return nil, fail("due cards", err)
	}
	if stats.SessionTypeCounts, err = s.stats.CountBySessionType(ctx); err != nil {
		return nil, fail("session types", err)
	}

	log.Debug("computed review statistics",
		slog.Int("today_reviews", stats.TodayReviews),
		slog.Int("week_reviews", stats.WeekReviews),
		slog.Int("due_cards", stats.DueCardsCount))
	return stats, nil
}
