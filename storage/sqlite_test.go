package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/platformer/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "records.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.platformer/records.db")
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(filepath.Join(home, ".platformer", "records.db"))
	assert.NoError(t, err)
}

func TestSaveRunAndBest(t *testing.T) {
	store := openTestStore(t)

	_, ok := store.Best("tower")
	assert.False(t, ok)

	runs := []Run{
		{Level: "tower", Deaths: 3, Ticks: 900, Won: true},
		{Level: "tower", Deaths: 1, Ticks: 2400, Won: true},
		{Level: "tower", Deaths: 1, Ticks: 1800, Won: true},
		{Level: "tower", Deaths: 0, Ticks: 100, Won: false},
		{Level: "first", Deaths: 0, Ticks: 600, Won: true},
	}
	for _, r := range runs {
		id, err := store.SaveRun(r)
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	best, ok := store.Best("tower")
	require.True(t, ok)
	assert.Equal(t, system.Best{Deaths: 1, Ticks: 1800}, best)

	got, err := store.BestRuns("tower", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1800, got[0].Ticks)
	assert.Equal(t, 2400, got[1].Ticks)
	assert.Equal(t, 3, got[2].Deaths)
	assert.Equal(t, 15*time.Second, got[0].PlayTime())
	assert.False(t, got[0].CreatedAt.IsZero())

	_, err = store.SaveRun(Run{})
	assert.Error(t, err)
}

func TestRecordEvent(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		kind  system.EventKind
		saved bool
	}{
		{system.EventJumped, false},
		{system.EventDied, false},
		{system.EventWon, true},
		{system.EventAbandoned, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			saved, err := store.RecordEvent(system.Event{Kind: tt.kind, Level: "first", Deaths: 2, Jumps: 5, Ticks: 240})
			require.NoError(t, err)
			assert.Equal(t, tt.saved, saved)
		})
	}

	recent, err := store.RecentRuns(0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.False(t, recent[0].Won, "newest first")
	assert.True(t, recent[1].Won)
	assert.Equal(t, 5, recent[1].Jumps)
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats("nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Runs)
	assert.True(t, empty.LastPlayed.IsZero())

	for _, r := range []Run{
		{Level: "first", Deaths: 4, Jumps: 10, Ticks: 500},
		{Level: "first", Deaths: 1, Jumps: 7, Ticks: 700, Won: true},
		{Level: "first", Deaths: 0, Jumps: 3, Ticks: 650, Won: true},
		{Level: "tower", Deaths: 9, Jumps: 1, Ticks: 50},
	} {
		_, err := store.SaveRun(r)
		require.NoError(t, err)
	}

	st, err := store.Stats("first")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Runs)
	assert.Equal(t, 2, st.Wins)
	assert.Equal(t, 5, st.TotalDeaths)
	assert.Equal(t, 20, st.TotalJumps)
	assert.Equal(t, 650, st.BestTicks)

	all, err := store.AllStats()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 0, all["tower"].Wins)
	assert.Equal(t, 0, all["tower"].BestTicks)

	require.NoError(t, store.ClearRuns("first"))
	st, err = store.Stats("first")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Runs)
}
