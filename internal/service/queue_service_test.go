package service

import (
	"testing"

	"badminton-manager/internal/domain"
	"badminton-manager/internal/store"
	"badminton-manager/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueSyncsPlayerStatus(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.queueService()

	ids := addFourPlayers(t, ts)

	entry, err := svc.Enqueue(ids[:2], ids[2:], "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)
	assert.Empty(t, entry.Court)

	for _, id := range ids {
		p, _ := ts.players.ByID(id)
		assert.Equal(t, domain.StatusQueue, p.Status)
	}

	// Queued players are out of the selectable pool.
	assert.Empty(t, AvailablePlayers(ts.players.All()))
}

func TestEnqueueValidatesSides(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.queueService()

	ids := addFourPlayers(t, ts)

	_, err := svc.Enqueue(ids[:1], ids[2:], "")
	assert.ErrorIs(t, err, ErrWrongSideCount)

	_, err = svc.Enqueue(ids[:2], ids[2:], "ghost-court")
	assert.ErrorIs(t, err, store.ErrCourtNotFound)

	assert.Empty(t, ts.queue.All())
}

func TestDequeueReleasesPlayersUnlessStillQueued(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.queueService()

	ids := addFourPlayers(t, ts)
	for _, name := range []string{"E", "F"} {
		_, err := ts.players.Add(name, domain.RankN)
		require.NoError(t, err)
	}

	first, err := svc.Enqueue(ids[:2], ids[2:], "")
	require.NoError(t, err)
	// A and B appear in a second entry too.
	second, err := svc.Enqueue(ids[:2], []int64{5, 6}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Dequeue(first.ID))

	// A and B stay queued via the second entry; C and D are released.
	for _, id := range ids[:2] {
		p, _ := ts.players.ByID(id)
		assert.Equal(t, domain.StatusQueue, p.Status)
	}
	for _, id := range ids[2:] {
		p, _ := ts.players.ByID(id)
		assert.Equal(t, domain.StatusCome, p.Status)
	}

	require.NoError(t, svc.Dequeue(second.ID))
	for _, p := range ts.players.All() {
		assert.Equal(t, domain.StatusCome, p.Status)
	}

	assert.ErrorIs(t, svc.Dequeue(99), store.ErrQueueNotFound)
}

func TestReconcileHealsStrandedQueueStatus(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.queueService()

	ids := addFourPlayers(t, ts)
	require.NoError(t, ts.players.UpdateByID(ids[0], domain.PlayerPatch{
		Status: utils.Ptr(domain.StatusQueue),
	}))

	require.NoError(t, svc.Reconcile())

	p, _ := ts.players.ByID(ids[0])
	assert.Equal(t, domain.StatusCome, p.Status)
}

func TestStartQueuedMatchRequiresCourt(t *testing.T) {
	ts := setupTestStores(t)
	queueSvc := ts.queueService()
	matchSvc := ts.matchService()

	ids := addFourPlayers(t, ts)
	entry, err := queueSvc.Enqueue(ids[:2], ids[2:], "")
	require.NoError(t, err)

	err = matchSvc.StartQueuedMatch(entry.ID, 1)
	assert.ErrorIs(t, err, ErrNoCourtSelected)
	assert.Len(t, ts.queue.All(), 1, "failed start leaves the entry queued")
	assert.Empty(t, ts.shuttles.All())
}

func TestStartQueuedMatchPromotesEntry(t *testing.T) {
	ts := setupTestStores(t)
	queueSvc := ts.queueService()
	matchSvc := ts.matchService()

	ids := addFourPlayers(t, ts)
	_, err := ts.courts.Add("C1")
	require.NoError(t, err)

	entry, err := queueSvc.Enqueue(ids[:2], ids[2:], "")
	require.NoError(t, err)
	require.NoError(t, queueSvc.AssignCourt(entry.ID, "C1"))

	require.NoError(t, matchSvc.StartQueuedMatch(entry.ID, 1))

	assert.Empty(t, ts.queue.All())
	court, _ := ts.courts.ByName("C1")
	assert.Equal(t, domain.CourtUsing, court.Status)
	for _, id := range ids {
		p, _ := ts.players.ByID(id)
		assert.Equal(t, domain.StatusPlaying, p.Status)
	}
}

func TestClearReleasesEveryQueuedPlayer(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.queueService()

	ids := addFourPlayers(t, ts)
	_, err := svc.Enqueue(ids[:2], ids[2:], "")
	require.NoError(t, err)

	require.NoError(t, svc.Clear())

	assert.Empty(t, ts.queue.All())
	for _, p := range ts.players.All() {
		assert.Equal(t, domain.StatusCome, p.Status)
	}
}
