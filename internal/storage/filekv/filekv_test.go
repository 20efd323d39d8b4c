package filekv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "storage.json")
	ctx := context.Background()

	s, err := New(p)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "packageTrackerShipments", `[{"id":"1"}]`))
	require.NoError(t, s.SetItem(ctx, "phoneContacts", `[]`))

	reopened, err := New(p)
	require.NoError(t, err)
	v, ok, err := reopened.GetItem(ctx, "packageTrackerShipments")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":"1"}]`, v)

	_, ok, _ = reopened.GetItem(ctx, "missing")
	require.False(t, ok)
}

func TestStorage_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "storage.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o600))

	s, err := New(p)
	require.NoError(t, err)
	_, ok, err := s.GetItem(context.Background(), "phoneContacts")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = os.Stat(p + ".corrupt")
	require.NoError(t, err)
}

func TestStorage_EmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(p, nil, 0o600))

	s, err := New(p)
	require.NoError(t, err)
	require.Equal(t, p, s.Path())
}

func TestDefaultPath(t *testing.T) {
	require.Equal(t, "storage.json", filepath.Base(DefaultPath()))
	require.Equal(t, "trackbook", filepath.Base(filepath.Dir(DefaultPath())))
}
