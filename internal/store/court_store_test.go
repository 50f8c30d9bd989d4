package store

import (
	"testing"

	"badminton-manager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCourtRejectsDuplicateName(t *testing.T) {
	kv := setupTestKV(t)
	store := NewCourtStore(kv)
	require.NoError(t, store.Load())

	court, err := store.Add("C1")
	require.NoError(t, err)
	assert.Equal(t, domain.CourtAvailable, court.Status)
	assert.Equal(t, 0, court.MatchCount)
	require.Len(t, court.CourtUsages, 1)
	assert.NotNil(t, court.CourtUsages[0].StartTime)
	assert.Nil(t, court.CurrentMatch)

	_, err = store.Add("C1")
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Len(t, store.All(), 1)
}

func TestDeleteCourtBlockedWhileUsing(t *testing.T) {
	kv := setupTestKV(t)
	store := NewCourtStore(kv)
	require.NoError(t, store.Load())

	_, err := store.Add("C1")
	require.NoError(t, err)
	require.NoError(t, store.Mutate("C1", func(c *domain.Court) {
		c.Status = domain.CourtUsing
		c.CurrentMatch = &domain.MatchHistory{}
	}))

	err = store.Delete("C1")
	assert.ErrorIs(t, err, ErrCourtInUse)
	assert.Len(t, store.All(), 1)

	require.NoError(t, store.Mutate("C1", func(c *domain.Court) {
		c.Status = domain.CourtAvailable
		c.CurrentMatch = nil
	}))
	require.NoError(t, store.Delete("C1"))
	assert.Empty(t, store.All())

	assert.ErrorIs(t, store.Delete("C1"), ErrCourtNotFound)
}

func TestShuttleNumbersUniquePerSession(t *testing.T) {
	kv := setupTestKV(t)
	store := NewShuttleStore(kv)
	require.NoError(t, store.Load())

	require.NoError(t, store.Add(1, 0))
	err := store.Add(1, 0)
	assert.ErrorIs(t, err, ErrShuttleTaken)
	assert.Len(t, store.All(), 1, "rejected add must leave the tally unchanged")

	require.NoError(t, store.Add(2, 7))
	assert.Equal(t, 1, store.CountForDay(7))
	assert.True(t, store.Taken(2))
	assert.False(t, store.Taken(3))
}

func TestQueueCounterMonotonicAcrossRemovals(t *testing.T) {
	kv := setupTestKV(t)
	store := NewQueueStore(kv)
	require.NoError(t, store.Load())

	players := []domain.Player{{ID: 1}, {ID: 2}}
	first, err := store.Add(players, players, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	require.NoError(t, store.Remove(first.ID))

	second, err := store.Add(players, players, "C1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID, "ids are never reused after removal")

	require.NoError(t, store.Clear())
	third, err := store.Add(players, players, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), third.ID, "clear resets the counter")
}

func TestKVGetMissingKey(t *testing.T) {
	kv := setupTestKV(t)

	var v []domain.Court
	found, err := kv.Get("no-such-key", &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)

	require.NoError(t, kv.Put("k", []int{1, 2}))
	var ints []int
	found, err = kv.Get("k", &ints)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{1, 2}, ints)

	require.NoError(t, kv.Put("other", 1))
	require.NoError(t, kv.Delete("k"))
	found, err = kv.Get("k", &ints)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.DeleteAll())
	var n int
	found, err = kv.Get("other", &n)
	require.NoError(t, err)
	assert.False(t, found)
}
