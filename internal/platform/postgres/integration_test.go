//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/migrate"
	"github.com/phrazzld/scry-review/internal/platform/postgres"
	"github.com/phrazzld/scry-review/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openIntegrationDB connects to SCRY_TEST_DB_URL and migrates it, skipping
// the test when the variable is unset.
func openIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()
	dbURL := os.Getenv("SCRY_TEST_DB_URL")
	if dbURL == "" {
		t.Skip("SCRY_TEST_DB_URL not set")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err)
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, migrate.Run(ctx, db, postgres.Migrations, migrate.CommandUp, nil))
	return db
}

// withTx runs fn in a transaction that is always rolled back.
func withTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	fn(tx)
}

func TestIntegration_CardAndSessionLifecycle(t *testing.T) {
	db := openIntegrationDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	withTx(t, db, func(tx *sql.Tx) {
		cards := postgres.NewPostgresCardStore(tx, nil)
		sessions := postgres.NewPostgresReviewSessionStore(tx, nil)
		stats := postgres.NewPostgresStatsStore(tx, nil)

		card := domain.NewCard(now)
		require.NoError(t, cards.Create(ctx, card))
		assert.ErrorIs(t, cards.Create(ctx, domain.NewCardWithID(card.ID, now)), store.ErrCardExists)

		session, err := domain.NewReviewSession(card.ID, domain.SessionTypeTest, 2.5, now)
		require.NoError(t, err)
		require.NoError(t, sessions.Create(ctx, session))

		locked, err := cards.GetForUpdate(ctx, card.ID)
		require.NoError(t, err)
		require.NoError(t, session.Complete(4, 2.5, 1, nil, now.Add(time.Minute)))
		require.NoError(t, sessions.MarkCompleted(ctx, session))
		assert.ErrorIs(t, sessions.MarkCompleted(ctx, session), store.ErrSessionAlreadyCompleted)

		expected := locked.ReviewCount
		locked.ApplyReview(now, 1)
		require.NoError(t, cards.UpdateSchedule(ctx, locked, expected))
		assert.ErrorIs(t, cards.UpdateSchedule(ctx, locked, expected), store.ErrConcurrentUpdate)

		got, err := sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusCompleted, got.Status)
		require.NotNil(t, got.ReviewDuration)
		assert.Equal(t, time.Minute, *got.ReviewDuration)

		n, err := stats.CountCompletedSince(ctx, now.Add(-time.Second))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
	})
}

func TestIntegration_ConcurrentScheduleUpdates(t *testing.T) {
	db := openIntegrationDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	cards := postgres.NewPostgresCardStore(db, nil)
	card := domain.NewCard(now)
	require.NoError(t, cards.Create(ctx, card))
	t.Cleanup(func() { _ = cards.Delete(ctx, card.ID) })

	const workers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
				txCards := cards.WithTx(tx)
				locked, err := txCards.GetForUpdate(ctx, card.ID)
				if err != nil {
					return err
				}
				if locked.ReviewCount > 0 {
					return store.ErrConcurrentUpdate
				}
				expected := locked.ReviewCount
				locked.ApplyReview(now, 1)
				return txCards.UpdateSchedule(ctx, locked, expected)
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, store.ErrConcurrentUpdate) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	got, err := cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReviewCount)
}
