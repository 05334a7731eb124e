package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (ports.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func stores(t *testing.T) map[string]ports.SessionStore {
	t.Helper()
	redisStore, _ := newRedisStore(t)
	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]ports.SessionStore{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
		"file":   fileStore,
	}
}

func TestSessionStore_Contract(t *testing.T) {
	ctx := context.Background()
	session := core.ConnectionSession{
		BackendID:  core.BackendLuncDash,
		Family:     core.FamilyCosmos,
		Address:    "terra1abc",
		RawSession: `{"connected":true}`,
		CreatedAt:  time.Unix(1_700_000_000, 0).UTC(),
	}

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "luncdash.wcSession")
			assert.ErrorIs(t, err, core.ErrSessionNotFound)

			require.NoError(t, s.Save(ctx, "luncdash.wcSession", session))

			got, err := s.Load(ctx, "luncdash.wcSession")
			require.NoError(t, err)
			assert.Equal(t, session, got)

			// namespaces are disjoint
			_, err = s.Load(ctx, "terrastation.wcSession")
			assert.ErrorIs(t, err, core.ErrSessionNotFound)

			require.NoError(t, s.Delete(ctx, "luncdash.wcSession"))
			_, err = s.Load(ctx, "luncdash.wcSession")
			assert.ErrorIs(t, err, core.ErrSessionNotFound)

			// deleting twice is fine
			assert.NoError(t, s.Delete(ctx, "luncdash.wcSession"))
		})
	}
}

func TestRedisStore_KeyPrefixAndCorruptPayload(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Save(ctx, "metamask", core.ConnectionSession{Address: "0xabc"}))
	assert.True(t, mr.Exists("walletbridge:session:metamask"))

	require.NoError(t, mr.Set("walletbridge:session:metamask", "{not json"))
	_, err := s.Load(ctx, "metamask")
	assert.ErrorIs(t, err, core.ErrSessionCorrupt)
	assert.NotErrorIs(t, err, core.ErrSessionNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	_, err := s.Load(context.Background(), "metamask")
	assert.ErrorIs(t, err, core.ErrStoreOperationFailed)
}

func TestFileStore_WritesPrivateFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../station", core.ConnectionSession{Address: "terra1abc"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	info, err := os.Stat(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
