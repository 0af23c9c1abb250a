package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/service/review_stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsRouter(t *testing.T, stats *mockStatsService, db Pinger) http.Handler {
	t.Helper()
	log, _ := logger.NewTestLogger()
	return NewRouter(RouterConfig{
		Cards:  NewCardHandler(&mockReviewService{}, log),
		Stats:  NewStatsHandler(stats, log),
		DB:     db,
		Logger: log,
	})
}

func TestGetStats(t *testing.T) {
	avg := 3.5
	stats := &mockStatsService{
		getStatsFn: func(ctx context.Context) (*domain.ReviewStats, error) {
			return &domain.ReviewStats{
				TodayReviews:       2,
				TodayDistinctCards: 2,
				WeekReviews:        4,
				WeekDistinctCards:  2,
				AverageQuality:     &avg,
				DueCardsCount:      1,
				SessionTypeCounts:  map[domain.SessionType]int{domain.SessionTypeQuick: 3, domain.SessionTypeDeep: 1},
			}, nil
		},
	}

	w := doRequest(t, newStatsRouter(t, stats, mockPinger{}), http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"today_reviews": 2,
		"today_distinct_cards": 2,
		"week_reviews": 4,
		"week_distinct_cards": 2,
		"average_quality": 3.5,
		"due_cards_count": 1,
		"session_type_counts": {"quick": 3, "deep": 1}
	}`, w.Body.String())
}

func TestGetStats_Unavailable(t *testing.T) {
	stats := &mockStatsService{
		getStatsFn: func(ctx context.Context) (*domain.ReviewStats, error) {
			return nil, fmt.Errorf("%w: count_due: %w", review_stats.ErrStatsUnavailable, errors.New("SELECT COUNT(*) FROM cards failed"))
		},
	}

	w := doRequest(t, newStatsRouter(t, stats, mockPinger{}), http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Service temporarily unavailable", resp.Error)
	assert.NotContains(t, w.Body.String(), "SELECT")
}

func TestHealth(t *testing.T) {
	w := doRequest(t, newStatsRouter(t, &mockStatsService{}, mockPinger{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	w = doRequest(t, newStatsRouter(t, &mockStatsService{}, mockPinger{err: assert.AnError}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
