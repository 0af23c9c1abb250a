package store

import (
	"context"
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
)

// StatsStore provides read-only aggregate queries over review history.
// Only completed sessions are counted.
type StatsStore interface {
	// CountCompletedSince counts sessions with reviewed_at >= since.
	CountCompletedSince(ctx context.Context, since time.Time) (int, error)

	// CountDistinctCardsSince counts distinct cards reviewed at or after since.
	CountDistinctCardsSince(ctx context.Context, since time.Time) (int, error)

	// AverageQualitySince averages quality of sessions at or after since.
	// Returns nil when there are none.
	AverageQualitySince(ctx context.Context, since time.Time) (*float64, error)

	// CountDue counts cards with next_review_at <= now.
	CountDue(ctx context.Context, now time.Time) (int, error)

	// CountBySessionType counts sessions per session type over all history.
	CountBySessionType(ctx context.Context) (map[domain.SessionType]int, error)
}
