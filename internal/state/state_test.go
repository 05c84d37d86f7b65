package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sorting"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "state.json"))
	require.NoError(t, err)

	assert.Empty(t, s.Token())
	assert.Empty(t, s.Page())
	_, ok := s.Sort("videos")
	assert.False(t, ok)
}

func TestMutationsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogctl", "state.json")

	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.SetTheme("dark"))
	require.NoError(t, s.SetPage("users"))
	require.NoError(t, s.SetSort("files", sorting.State{Field: "size", Order: sorting.Desc}))

	reopened, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, "tok", reopened.Token())
	assert.Equal(t, "dark", reopened.Theme())
	assert.Equal(t, "users", reopened.Page())

	st, ok := reopened.Sort("files")
	require.True(t, ok)
	assert.Equal(t, sorting.State{Field: "size", Order: sorting.Desc}, st)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestClearSessionKeepsPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.SetPage("categories"))
	require.NoError(t, s.SetTheme("light"))

	require.NoError(t, s.ClearSession())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.Token())
	assert.Empty(t, reopened.Page())
	assert.Equal(t, "light", reopened.Theme())
}

func TestClearTokenKeepsPage(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.SetPage("videos"))
	require.NoError(t, s.ClearToken())

	assert.Empty(t, s.Token())
	assert.Equal(t, "videos", s.Page())
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	require.NoError(t, s.SetSort("videos", sorting.State{Field: "id", Order: sorting.Asc}))

	snap := s.Snapshot()
	snap.Sort["videos"] = sorting.State{Field: "name"}

	st, _ := s.Sort("videos")
	assert.Equal(t, "id", st.Field)
}
