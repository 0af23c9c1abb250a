package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-review/internal/api/shared"
	"github.com/phrazzld/scry-review/internal/redact"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthHandler returns a handler reporting whether the database answers a
// ping within timeout.
func HealthHandler(db Pinger, timeout time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", slog.String("error", redact.Error(err)))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable,
				HealthResponse{Status: "unavailable", Database: "unreachable"})
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
