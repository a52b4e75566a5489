package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahnaineh/GITGAME/internal/level"
	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var drivers = []string{DriverBolt, DriverSQLite}

// newTestStore opens a store of the given driver in a temp directory.
func newTestStore(t *testing.T, driver string) Store {
	t.Helper()
	st, err := Open(driver, filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestSession(t *testing.T) (*session.Game, *session.Session) {
	t.Helper()
	g := session.NewGame(level.DefaultPack(), nil)
	s, err := g.New(1)
	require.NoError(t, err)
	return g, s
}

func forEachDriver(t *testing.T, fn func(t *testing.T, st Store)) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, newTestStore(t, driver))
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
}

func TestStore_SaveAndGet(t *testing.T) {
	forEachDriver(t, func(t *testing.T, st Store) {
		g, s := newTestSession(t)
		g.Run(s, "git init")
		g.Run(s, "git add map.txt")

		require.NoError(t, st.SaveSession(s))

		loaded, err := st.GetSession(s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, loaded.ID)
		assert.Equal(t, s.LevelID, loaded.LevelID)
		assert.Equal(t, s.Actions, loaded.Actions)
		assert.Equal(t, s.CommandHistory, loaded.CommandHistory)
		assert.Equal(t, s.Output, loaded.Output)
		assert.Equal(t, s.Repo, loaded.Repo)
		assert.True(t, s.UpdatedAt.Equal(loaded.UpdatedAt))
	})
}

func TestStore_GetMissing(t *testing.T) {
	forEachDriver(t, func(t *testing.T, st Store) {
		_, err := st.GetSession("nope")
		assert.ErrorIs(t, err, ErrSessionNotFound)

		assert.ErrorIs(t, st.DeleteSession("nope"), ErrSessionNotFound)

		_, err = st.UpdateSession("nope", func(*session.Session) error { return nil })
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestStore_UpdateSession(t *testing.T) {
	forEachDriver(t, func(t *testing.T, st Store) {
		g, s := newTestSession(t)
		require.NoError(t, st.SaveSession(s))

		updated, err := st.UpdateSession(s.ID, func(sess *session.Session) error {
			g.Run(sess, "git init")
			return nil
		})
		require.NoError(t, err)
		assert.True(t, updated.Repo.Initialized)

		loaded, err := st.GetSession(s.ID)
		require.NoError(t, err)
		assert.True(t, loaded.Repo.Initialized)
		assert.Equal(t, []string{"git init"}, loaded.CommandHistory)
	})
}

func TestStore_UpdateSessionErrorDiscardsChanges(t *testing.T) {
	forEachDriver(t, func(t *testing.T, st Store) {
		g, s := newTestSession(t)
		require.NoError(t, st.SaveSession(s))

		boom := errors.New("boom")
		_, err := st.UpdateSession(s.ID, func(sess *session.Session) error {
			g.Run(sess, "git init")
			return boom
		})
		assert.ErrorIs(t, err, boom)

		loaded, err := st.GetSession(s.ID)
		require.NoError(t, err)
		assert.False(t, loaded.Repo.Initialized)
		assert.Empty(t, loaded.CommandHistory)
	})
}

func TestStore_ListAndDelete(t *testing.T) {
	forEachDriver(t, func(t *testing.T, st Store) {
		_, older := newTestSession(t)
		_, newer := newTestSession(t)
		older.UpdatedAt = time.UnixMilli(1_000)
		newer.UpdatedAt = time.UnixMilli(2_000)
		newer.LevelID = 2

		require.NoError(t, st.SaveSession(older))
		require.NoError(t, st.SaveSession(newer))

		list, err := st.ListSessions()
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, 2, list[0].LevelID)
		assert.Equal(t, older.ID, list[1].ID)

		require.NoError(t, st.DeleteSession(older.ID))
		list, err = st.ListSessions()
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, newer.ID, list[0].ID)
	})
}

func TestStore_GetSetValue(t *testing.T) {
	forEachDriver(t, func(t *testing.T, st Store) {
		val, err := st.GetValue("last_session")
		require.NoError(t, err)
		assert.Equal(t, "", val)

		require.NoError(t, st.SetValue("last_session", "abc"))
		require.NoError(t, st.SetValue("last_session", "def"))

		val, err = st.GetValue("last_session")
		require.NoError(t, err)
		assert.Equal(t, "def", val)
	})
}

func TestStore_Reopen(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "sessions.db")
			_, s := newTestSession(t)

			st, err := Open(driver, path)
			require.NoError(t, err)
			require.NoError(t, st.SaveSession(s))
			require.NoError(t, st.Close())

			st, err = Open(driver, path)
			require.NoError(t, err)
			defer st.Close()

			loaded, err := st.GetSession(s.ID)
			require.NoError(t, err)
			assert.Equal(t, s.ID, loaded.ID)
		})
	}
}
