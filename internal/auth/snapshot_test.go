package auth

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"safvacut-wallet-go/internal/cache"
	"safvacut-wallet-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseSnapshots(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	uid := "snap-" + time.Now().Format("150405.000000")

	_, err := store.Load(ctx, uid)
	assert.True(t, errors.Is(err, ErrNoSnapshot))

	identity := models.Identity{Uid: uid, Email: "ada@example.com", Provider: ProviderEmail}
	require.NoError(t, store.Save(ctx, identity))

	got, err := store.Load(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, identity.Email, got.Email)

	require.NoError(t, store.Delete(ctx, uid))
	_, err = store.Load(ctx, uid)
	assert.True(t, errors.Is(err, ErrNoSnapshot))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, uid))
}

func TestMemorySnapshotStore(t *testing.T) {
	exerciseSnapshots(t, NewMemorySnapshotStore())
}

func TestRedisSnapshotStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := cache.ConnectRedis(context.Background(), models.RedisConfig{Enabled: true, Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	exerciseSnapshots(t, NewRedisSnapshotStore(rdb, time.Minute))
}
