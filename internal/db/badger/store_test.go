package badger

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstax/openstax-resource-names/internal/db"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", true, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestOpen_InMemory(t *testing.T) {
	s := openMemory(t)
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.WaitForReady(context.Background(), time.Second))
}

func TestOpen_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s, err := Open(dir, false, nil)
	require.NoError(t, err)
	defer s.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpen_PathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := Open(file, false, nil)
	assert.Error(t, err)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("", false, nil)
	assert.Error(t, err)
}

func TestClose_PingFails(t *testing.T) {
	s, err := Open("", true, nil)
	require.NoError(t, err)
	s.Close()

	assert.Error(t, s.Ping(context.Background()))
}

func TestSetGet(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "orn:a", []byte("value")))

	got, err := s.Get(ctx, "orn:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestGet_Missing(t *testing.T) {
	s := openMemory(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestSetWithTTL_Expires(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.SetWithTTL(ctx, "short", []byte("v"), time.Second))
	_, err := s.Get(ctx, "short")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = s.Get(ctx, "short")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestDel(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Del(ctx, "never-set"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestScan_Prefix(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	for _, k := range []string{"orn:b", "orn:a", "other:c"} {
		require.NoError(t, s.Set(ctx, k, []byte("v")))
	}

	keys, err := s.Scan(ctx, "orn:")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"orn:a", "orn:b"}, keys)
}
