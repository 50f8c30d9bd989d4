package service

import (
	"testing"

	"badminton-manager/internal/store"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testStores struct {
	players  *store.PlayerStore
	courts   *store.CourtStore
	shuttles *store.ShuttleStore
	history  *store.HistoryStore
	queue    *store.QueueStore
	days     *store.DayStore
}

// setupTestStores spins up an in-memory SQLite database, applies migrations
// and returns hydrated stores.
func setupTestStores(t *testing.T) *testStores {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	t.Cleanup(func() { database.Close() })

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	kv := store.NewKV(database)
	ts := &testStores{
		players:  store.NewPlayerStore(kv),
		courts:   store.NewCourtStore(kv),
		shuttles: store.NewShuttleStore(kv),
		history:  store.NewHistoryStore(kv),
		queue:    store.NewQueueStore(kv),
		days:     store.NewDayStore(kv),
	}
	require.NoError(t, ts.players.Load())
	require.NoError(t, ts.courts.Load())
	require.NoError(t, ts.shuttles.Load())
	require.NoError(t, ts.history.Load())
	require.NoError(t, ts.queue.Load())
	require.NoError(t, ts.days.Load())
	return ts
}

func (ts *testStores) matchService() *MatchService {
	return NewMatchService(zerolog.Nop(), ts.players, ts.courts, ts.shuttles, ts.history, ts.queue, ts.days)
}

func (ts *testStores) rosterService() *RosterService {
	return NewRosterService(zerolog.Nop(), ts.players, ts.courts, ts.shuttles, ts.days)
}

func (ts *testStores) queueService() *QueueService {
	return NewQueueService(zerolog.Nop(), ts.players, ts.courts, ts.queue)
}

func (ts *testStores) dayService() *DayService {
	return NewDayService(zerolog.Nop(), ts.days, ts.players, ts.courts, ts.shuttles, ts.history, ts.queueService())
}
