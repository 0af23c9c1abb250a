package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-review/internal/api/shared"
	"github.com/phrazzld/scry-review/internal/service/review_stats"
)

// StatsHandler serves review statistics.
type StatsHandler struct {
	statsService review_stats.Service
	logger       *slog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService review_stats.Service, logger *slog.Logger) *StatsHandler {
	if statsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("statsService cannot be nil for StatsHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StatsHandler")
	}
	return &StatsHandler{
		statsService: statsService,
		logger:       logger.With(slog.String("component", "stats_handler")),
	}
}

// GetStats handles GET /api/stats.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute review statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
