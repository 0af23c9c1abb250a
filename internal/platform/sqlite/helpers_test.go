package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// openTestDB opens a migrated database in a per-test temp directory.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	log, _ := logger.NewTestLogger()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "scry.db"), log)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createCard(t *testing.T, cards *sqlite.CardStore, now time.Time) *domain.Card {
	t.Helper()
	card := domain.NewCard(now)
	require.NoError(t, cards.Create(context.Background(), card))
	return card
}

func completeSession(
	t *testing.T,
	sessions *sqlite.ReviewSessionStore,
	cardID uuid.UUID,
	sessionType domain.SessionType,
	quality domain.Quality,
	at time.Time,
) *domain.ReviewSession {
	t.Helper()
	ctx := context.Background()
	session, err := domain.NewReviewSession(cardID, sessionType, 2.5, at)
	require.NoError(t, err)
	require.NoError(t, sessions.Create(ctx, session))
	require.NoError(t, session.Complete(quality, 2.6, 1, nil, at.Add(30*time.Second)))
	require.NoError(t, sessions.MarkCompleted(ctx, session))
	return session
}
