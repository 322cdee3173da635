package project_test

import (
	"path/filepath"
	"testing"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *project.SQLiteStore {
	t.Helper()
	store, err := project.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	require.NoError(t, store.SaveProject("proj-1", []byte(`{"name":"a"}`)))

	data, err := store.LoadProject("proj-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a"}`, string(data))

	_, err = store.LoadProject("ghost")
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func TestSQLiteStore_Upsert(t *testing.T) {
	store := newSQLiteStore(t)

	require.NoError(t, store.SaveProject("proj-1", []byte("v1")))
	require.NoError(t, store.SaveProject("proj-1", []byte("v2")))

	data, err := store.LoadProject("proj-1")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	infos, err := store.ListProjects()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestSQLiteStore_List(t *testing.T) {
	store := newSQLiteStore(t)

	infos, err := store.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, store.SaveProject("b", []byte("bb")))
	require.NoError(t, store.SaveProject("a", []byte("a")))

	infos, err = store.ListProjects()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].ID)
	assert.Equal(t, int64(1), infos[0].Size)
	assert.False(t, infos[0].UpdatedAt.IsZero())
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newSQLiteStore(t)

	require.NoError(t, store.SaveProject("proj-1", []byte("x")))
	require.NoError(t, store.DeleteProject("proj-1"))
	require.NoError(t, store.DeleteProject("proj-1"))

	_, err := store.LoadProject("proj-1")
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func TestSQLiteStore_Current(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.LoadCurrent()
	assert.ErrorIs(t, err, project.ErrNotFound)

	require.NoError(t, store.SaveCurrent("proj-1"))
	require.NoError(t, store.SaveCurrent("proj-2")) // pointer is replaced

	id, err := store.LoadCurrent()
	require.NoError(t, err)
	assert.Equal(t, "proj-2", id)
}

func TestSQLiteStore_Closed(t *testing.T) {
	store := newSQLiteStore(t)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close()) // double close is fine

	assert.ErrorIs(t, store.SaveProject("p", nil), project.ErrStoreClosed)
	_, err := store.LoadProject("p")
	assert.ErrorIs(t, err, project.ErrStoreClosed)
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.db")

	store, err := project.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveProject("proj-1", []byte("durable")))
	require.NoError(t, store.SaveCurrent("proj-1"))
	require.NoError(t, store.Close())

	reopened, err := project.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.LoadProject("proj-1")
	require.NoError(t, err)
	assert.Equal(t, "durable", string(data))

	id, err := reopened.LoadCurrent()
	require.NoError(t, err)
	assert.Equal(t, "proj-1", id)
}
