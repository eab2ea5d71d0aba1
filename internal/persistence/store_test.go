package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/acreage/internal/config"
	"github.com/talgya/acreage/internal/session"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "save.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoadWithoutSaveStartsFresh(t *testing.T) {
	st := testStore(t)

	snap, found, err := st.LoadSnapshot()
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, snap)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := testStore(t)

	s := session.New(config.Default(), 42)
	s.BuyLand(0, 0)
	s.GameTime = 33.5

	require.NoError(t, st.SaveSnapshot(s.Snapshot()))

	snap, found, err := st.LoadSnapshot()
	require.NoError(t, err)
	require.True(t, found)

	r := session.New(config.Default(), 42)
	r.Restore(snap)
	require.Equal(t, s.Money, r.Money)
	require.Equal(t, 33.5, r.GameTime)
	require.True(t, r.Field.At(0, 0).Purchased)
}

func TestSaveReplacesPreviousSlot(t *testing.T) {
	st := testStore(t)

	s := session.New(config.Default(), 1)
	require.NoError(t, st.SaveSnapshot(s.Snapshot()))

	s.GameTime = 120
	require.NoError(t, st.SaveSnapshot(s.Snapshot()))

	snap, found, err := st.LoadSnapshot()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 120.0, snap.GameTime)
}

func TestCorruptSaveIsDiscarded(t *testing.T) {
	st := testStore(t)

	_, err := st.conn.Exec(
		"INSERT OR REPLACE INTO saves (id, data, saved_at) VALUES (1, ?, ?)",
		`[[not a snapshot`, "2026-01-01T00:00:00Z",
	)
	require.NoError(t, err)

	snap, found, err := st.LoadSnapshot()
	require.NoError(t, err, "corruption means fresh start, not failure")
	require.False(t, found)
	require.Nil(t, snap)
}

func TestClearEmptiesTheSlot(t *testing.T) {
	st := testStore(t)

	s := session.New(config.Default(), 1)
	require.NoError(t, st.SaveSnapshot(s.Snapshot()))
	require.NoError(t, st.Clear())

	_, found, err := st.LoadSnapshot()
	require.NoError(t, err)
	require.False(t, found)
}
