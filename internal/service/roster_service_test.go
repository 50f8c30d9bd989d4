package service

import (
	"testing"

	"badminton-manager/internal/domain"
	"badminton-manager/internal/store"
	"badminton-manager/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkComeRestartsWaitingClock(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.rosterService()

	p, err := svc.AddPlayer("A", domain.RankN)
	require.NoError(t, err)

	// Already present: nothing moves.
	before, _ := ts.players.ByID(p.ID)
	require.NoError(t, svc.MarkCome("A"))
	after, _ := ts.players.ByID(p.ID)
	assert.Equal(t, before.WaitingSince, after.WaitingSince)

	require.NoError(t, ts.players.MutateByID(p.ID, func(pl *domain.Player) {
		pl.Status = domain.StatusGoHome
		pl.WaitingSince = 1
	}))

	require.NoError(t, svc.MarkCome("A"))
	got, _ := ts.players.ByID(p.ID)
	assert.Equal(t, domain.StatusCome, got.Status)
	assert.Greater(t, got.WaitingSince, int64(1))

	assert.ErrorIs(t, svc.MarkCome("nobody"), store.ErrPlayerNotFound)
}

func TestMarkPauseAndGoHome(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.rosterService()

	_, err := svc.AddPlayer("A", domain.RankN)
	require.NoError(t, err)

	require.NoError(t, svc.MarkPause("A"))
	p, _ := ts.players.ByName("A")
	assert.Equal(t, domain.StatusPause, p.Status)

	require.NoError(t, svc.MarkGoHome("A"))
	p, _ = ts.players.ByName("A")
	assert.Equal(t, domain.StatusGoHome, p.Status)
	assert.NotNil(t, p.GoHomeTime)
}

func TestTogglePaidFlipsStatus(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.rosterService()

	_, err := svc.AddPlayer("A", domain.RankN)
	require.NoError(t, err)

	// Settling up sends the player home.
	require.NoError(t, svc.TogglePaid("A"))
	p, _ := ts.players.ByName("A")
	assert.True(t, p.IsPaid)
	assert.Equal(t, domain.StatusGoHome, p.Status)
	assert.NotNil(t, p.GoHomeTime)

	// Undoing the payment brings them back.
	require.NoError(t, svc.TogglePaid("A"))
	p, _ = ts.players.ByName("A")
	assert.False(t, p.IsPaid)
	assert.Equal(t, domain.StatusCome, p.Status)
}

func TestPauseCourtClosesUsageInterval(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.rosterService()

	_, err := svc.AddCourt("C1")
	require.NoError(t, err)

	require.NoError(t, svc.PauseCourt("C1"))
	court, _ := ts.courts.ByName("C1")
	assert.Equal(t, domain.CourtPause, court.Status)
	require.Len(t, court.CourtUsages, 1)
	assert.NotNil(t, court.CourtUsages[0].EndTime)
	assert.NotNil(t, court.CourtUsages[0].TotalMinutes)

	// Pausing twice is a no-op.
	require.NoError(t, svc.PauseCourt("C1"))
	court, _ = ts.courts.ByName("C1")
	assert.Len(t, court.CourtUsages, 1)

	require.NoError(t, svc.ResumeCourt("C1"))
	court, _ = ts.courts.ByName("C1")
	assert.Equal(t, domain.CourtAvailable, court.Status)
	require.Len(t, court.CourtUsages, 2)
	assert.Nil(t, court.CourtUsages[1].EndTime)

	assert.ErrorIs(t, svc.PauseCourt("nope"), store.ErrCourtNotFound)
}

func TestUpdateCourtManualCorrection(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.rosterService()
	matchSvc := ts.matchService()

	_, err := svc.AddCourt("C1")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateCourt("C1", domain.CourtPatch{
		MatchCount: utils.Ptr(7),
	}))
	court, _ := ts.courts.ByName("C1")
	assert.Equal(t, 7, court.MatchCount)
	assert.Equal(t, domain.CourtAvailable, court.Status, "untouched fields survive")

	ids := addFourPlayers(t, ts)
	require.NoError(t, matchSvc.StartMatch(ids[:2], ids[2:], "C1", 1))

	err = svc.UpdateCourt("C1", domain.CourtPatch{
		Status: utils.Ptr(domain.CourtPause),
	})
	assert.ErrorIs(t, err, store.ErrCourtInUse)

	// Count corrections stay possible mid-match.
	require.NoError(t, svc.UpdateCourt("C1", domain.CourtPatch{
		MatchCount: utils.Ptr(8),
	}))

	assert.ErrorIs(t, svc.UpdateCourt("nope", domain.CourtPatch{}), store.ErrCourtNotFound)
}

func TestPauseCourtBlockedWhileHostingMatch(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.rosterService()
	matchSvc := ts.matchService()

	ids := addFourPlayers(t, ts)
	_, err := svc.AddCourt("C1")
	require.NoError(t, err)

	require.NoError(t, matchSvc.StartMatch(ids[:2], ids[2:], "C1", 1))
	assert.ErrorIs(t, svc.PauseCourt("C1"), store.ErrCourtInUse)
}

func TestAddShuttleAttributedToActiveDay(t *testing.T) {
	ts := setupTestStores(t)
	svc := ts.rosterService()

	assert.ErrorIs(t, svc.AddShuttle(0), ErrInvalidShuttle)

	require.NoError(t, svc.AddShuttle(1))

	day, err := ts.days.StartNew("2026-09-01", domain.NowMillis())
	require.NoError(t, err)
	require.NoError(t, svc.AddShuttle(2))

	assert.ErrorIs(t, svc.AddShuttle(2), store.ErrShuttleTaken)

	shuttles := ts.shuttles.All()
	require.Len(t, shuttles, 2)
	assert.Equal(t, int64(0), shuttles[0].DayID)
	assert.Equal(t, day.ID, shuttles[1].DayID)
	assert.Equal(t, 1, ts.shuttles.CountForDay(day.ID))
}
