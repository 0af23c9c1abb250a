package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/scry-review/internal/api"
	"github.com/phrazzld/scry-review/internal/clock"
	"github.com/phrazzld/scry-review/internal/config"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/platform/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "debug", RequestTimeoutSeconds: 5},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			URL:    filepath.Join(t.TempDir(), "scry.db"),
		},
		Stats:   config.StatsConfig{Timezone: "UTC"},
		Tracing: config.TracingConfig{Exporter: config.ExporterStdout, ServiceName: "scry-review-test", SampleRatio: 1},
	}
}

func newTestApp(t *testing.T, clk clock.Clock) *application {
	t.Helper()
	cfg := testConfig(t)
	log, _ := logger.NewTestLogger()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, cfg.Database.URL, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app, err := newApplicationWithClock(ctx, cfg, log, db, clk)
	require.NoError(t, err)
	return app
}

func call(t *testing.T, h http.Handler, method, path, body string, out interface{}) int {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestNewApplication_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "mysql"
	log, _ := logger.NewTestLogger()

	_, err := newApplication(context.Background(), cfg, log, nil)
	assert.Error(t, err)
}

func TestApplication_ReviewFlow(t *testing.T) {
	start := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMock(start)
	h := newTestApp(t, clk).handler()

	var card api.CardResponse
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/cards", `{}`, &card))

	var due []api.DueCardResponse
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/cards/due", "", &due))
	require.Len(t, due, 1)
	assert.Equal(t, card.ID, due[0].Card.ID)

	// first review: interval 1, second: 6
	wantIntervals := []int{1, 6}
	for i, want := range wantIntervals {
		var session api.SessionResponse
		require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost,
			"/api/cards/"+card.ID+"/sessions", `{"session_type":"quick"}`, &session))

		clk.Advance(2 * time.Minute)
		var updated api.CardResponse
		require.Equal(t, http.StatusOK, call(t, h, http.MethodPost,
			"/api/sessions/"+session.ID+"/complete", `{"quality":5}`, &updated))
		assert.Equal(t, i+1, updated.ReviewCount)
		assert.True(t, updated.NextReviewAt.Equal(clk.Now().Add(time.Duration(want)*24*time.Hour)),
			"review %d: next review %s", i+1, updated.NextReviewAt)

		// completing twice conflicts
		assert.Equal(t, http.StatusConflict, call(t, h, http.MethodPost,
			"/api/sessions/"+session.ID+"/complete", `{"quality":5}`, nil))

		clk.Set(updated.NextReviewAt)
	}

	var history []api.SessionResponse
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/cards/"+card.ID+"/sessions", "", &history))
	require.Len(t, history, 2)
	assert.True(t, history[0].ReviewedAt.After(history[1].ReviewedAt))

	var stats domain.ReviewStats
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/stats", "", &stats))
	assert.Equal(t, 2, stats.WeekReviews)
	assert.Equal(t, 1, stats.WeekDistinctCards)
	assert.Equal(t, 2, stats.SessionTypeCounts[domain.SessionTypeQuick])

	require.Equal(t, http.StatusNoContent, call(t, h, http.MethodDelete, "/api/cards/"+card.ID, "", nil))
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/api/cards/"+card.ID, "", nil))
}

func TestApplication_Errors(t *testing.T) {
	h := newTestApp(t, clock.NewMock(time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC))).handler()

	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodPost,
		"/api/cards/"+"7f6c1a44-6d0b-4f4e-9a51-3a3c9a1c2b10"+"/sessions", `{"session_type":"deep"}`, nil))
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodPost,
		"/api/sessions/7f6c1a44-6d0b-4f4e-9a51-3a3c9a1c2b10/complete", `{"quality":3}`, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodPost,
		"/api/sessions/not-a-uuid/complete", `{"quality":3}`, nil))

	var health api.HealthResponse
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/health", "", &health))
	assert.Equal(t, "ok", health.Status)
}

func TestServe_GracefulShutdown(t *testing.T) {
	app := newTestApp(t, clock.System{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.handler()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr()))
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
