package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/scry-review/internal/api/middleware"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Cards          *CardHandler
	Stats          *StatsHandler
	DB             Pinger
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the chi router with middleware and all routes.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(cfg.Logger))
	r.Use(middleware.Timeout(timeout))

	r.Route("/api", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cfg.Cards.RegisterCard)
			r.Get("/due", cfg.Cards.GetDueCards)
			r.Get("/{id}", cfg.Cards.GetCard)
			r.Delete("/{id}", cfg.Cards.DeleteCard)
			r.Get("/{id}/sessions", cfg.Cards.GetSessionHistory)
			r.Post("/{id}/sessions", cfg.Cards.StartSession)
		})
		r.Post("/sessions/{id}/complete", cfg.Cards.CompleteSession)
		r.Get("/stats", cfg.Stats.GetStats)
		r.Get("/review-scale", ReviewScaleHandler)
	})

	r.Get("/health", HealthHandler(cfg.DB, 2*time.Second, cfg.Logger))

	return r
}
