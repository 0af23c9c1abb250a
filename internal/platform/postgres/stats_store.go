package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/store"
)

// PostgresStatsStore implements the store.StatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatsStore creates a new PostgreSQL implementation of the StatsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStatsStore(db store.DBTX, logger *slog.Logger) *PostgresStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure PostgresStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*PostgresStatsStore)(nil)

func (s *PostgresStatsStore) countInt(ctx context.Context, name, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		s.logger.Error("stats query failed",
			slog.String("query", name),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return n, nil
}

// CountCompletedSince implements store.StatsStore.CountCompletedSince
func (s *PostgresStatsStore) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	return s.countInt(ctx, "count_completed_since", `
		SELECT COUNT(*) FROM review_sessions
		WHERE status = 'completed' AND reviewed_at >= $1`, since)
}

// CountDistinctCardsSince implements store.StatsStore.CountDistinctCardsSince
func (s *PostgresStatsStore) CountDistinctCardsSince(ctx context.Context, since time.Time) (int, error) {
	return s.countInt(ctx, "count_distinct_cards_since", `
		SELECT COUNT(DISTINCT card_id) FROM review_sessions
		WHERE status = 'completed' AND reviewed_at >= $1`, since)
}

// AverageQualitySince implements store.StatsStore.AverageQualitySince
func (s *PostgresStatsStore) AverageQualitySince(ctx context.Context, since time.Time) (*float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT AVG(quality)::DOUBLE PRECISION FROM review_sessions
		WHERE status = 'completed' AND reviewed_at >= $1`, since,
	).Scan(&avg)
	if err != nil {
		s.logger.Error("stats query failed",
			slog.String("query", "average_quality_since"),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

// CountDue implements store.StatsStore.CountDue
func (s *PostgresStatsStore) CountDue(ctx context.Context, now time.Time) (int, error) {
	return s.countInt(ctx, "count_due", `SELECT COUNT(*) FROM cards WHERE next_review_at <= $1`, now)
}

// CountBySessionType implements store.StatsStore.CountBySessionType
func (s *PostgresStatsStore) CountBySessionType(ctx context.Context) (map[domain.SessionType]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_type, COUNT(*) FROM review_sessions
		WHERE status = 'completed'
		GROUP BY session_type`)
	if err != nil {
		s.logger.Error("stats query failed",
			slog.String("query", "count_by_session_type"),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.SessionType]int)
	for rows.Next() {
		var (
			sessionType string
			n           int
		)
		if err := rows.Scan(&sessionType, &n); err != nil {
			return nil, store.NewStoreError("review_session", "count_by_session_type", "failed to scan row", err)
		}
		counts[domain.SessionType(sessionType)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return counts, nil
}
