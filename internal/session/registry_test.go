package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/ipinfo"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/profile"
	"safvacut-wallet-go/internal/store"
	"safvacut-wallet-go/internal/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowResolver struct {
	delay time.Duration
}

func (r slowResolver) PublicIP(ctx context.Context) string {
	select {
	case <-time.After(r.delay):
		return "203.0.113.7"
	case <-ctx.Done():
		return ipinfo.Unknown
	}
}

func newTestRegistryWithStore(t *testing.T, opts ...profile.Option) (*Registry, store.DocumentStore) {
	t.Helper()
	backend := storetest.NewBackend(t)
	profiles := profile.NewService(backend, nil, common.DefaultAssetCatalogue(), opts...)
	r := NewRegistry(backend, profiles)
	t.Cleanup(func() { r.CloseAll(context.Background()) })
	return r, backend
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, _ := newTestRegistryWithStore(t)
	return r
}

func TestOpenSeedsAndLoads(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	id := models.Identity{Uid: "uid-1", Email: "ada@example.com", DisplayName: "Ada"}
	s, err := r.Open(ctx, id, models.ClientInfo{UserAgent: "Mozilla/5.0 (Windows NT 10.0)"})
	require.NoError(t, err)

	assert.Equal(t, "uid-1", s.Profile().Uid)
	assert.Len(t, s.Controller.Assets(), 5)
	assert.Equal(t, 0, s.Notifications.UnreadCount())

	got, ok := r.Get("uid-1")
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestOpenTwiceReusesSession(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	id := models.Identity{Uid: "uid-1", Email: "ada@example.com", DisplayName: "Ada"}
	first, err := r.Open(ctx, id, models.ClientInfo{})
	require.NoError(t, err)

	id.DisplayName = "Ada L."
	second, err := r.Open(ctx, id, models.ClientInfo{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "Ada L.", second.Identity().DisplayName)
	assert.Equal(t, 1, r.Len())
}

func TestClose(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	s, err := r.Open(ctx, models.Identity{Uid: "uid-1", Email: "ada@example.com"}, models.ClientInfo{})
	require.NoError(t, err)
	_, err = s.Controller.ConnectWallet(ctx, "MetaMask")
	require.NoError(t, err)
	list := s.Notifications.List()
	require.Len(t, list, 1)

	r.Close(ctx, "uid-1")
	_, ok := r.Get("uid-1")
	assert.False(t, ok)

	// closing twice is harmless
	r.Close(ctx, "uid-1")

	// A fresh session sees what the old one wrote.
	s, err = r.Open(ctx, models.Identity{Uid: "uid-1", Email: "ada@example.com"}, models.ClientInfo{})
	require.NoError(t, err)
	assert.Len(t, s.Controller.Wallets().Wallets, 1)
	assert.Equal(t, list[0].Id, s.Notifications.List()[0].Id)
}

func TestReopenRecordsLogin(t *testing.T) {
	r, docs := newTestRegistryWithStore(t)
	ctx := context.Background()

	id := models.Identity{Uid: "uid-1", Email: "ada@example.com", DisplayName: "Ada"}
	_, err := r.Open(ctx, id, models.ClientInfo{})
	require.NoError(t, err)
	first, err := docs.GetProfile(ctx, "uid-1")
	require.NoError(t, err)

	// A write made outside the session.
	country := "UK"
	require.NoError(t, docs.UpdateProfile(ctx, "uid-1", store.ProfileUpdate{Country: &country}))

	time.Sleep(20 * time.Millisecond)
	s, err := r.Open(ctx, id, models.ClientInfo{})
	require.NoError(t, err)

	second, err := docs.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, second.LastLoginDate.After(first.LastLoginDate),
		"last login %v not after %v", second.LastLoginDate, first.LastLoginDate)

	assert.Equal(t, "UK", s.Profile().Country)
	assert.True(t, s.Profile().LastLoginDate.Equal(second.LastLoginDate))
	assert.Len(t, s.Controller.Assets(), 5)
}

func TestOpenDoesNotSerializeUsers(t *testing.T) {
	delay := 300 * time.Millisecond
	r, _ := newTestRegistryWithStore(t, profile.WithIpResolver(slowResolver{delay: delay}))
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uid := fmt.Sprintf("uid-%d", i)
			_, errs[i] = r.Open(ctx, models.Identity{Uid: uid, Email: uid + "@example.com"}, models.ClientInfo{})
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 3, r.Len())
	assert.Less(t, elapsed, 2*delay, "first logins ran one after another")
}

func TestConcurrentOpenSameUser(t *testing.T) {
	r, docs := newTestRegistryWithStore(t, profile.WithIpResolver(slowResolver{delay: 50 * time.Millisecond}))
	ctx := context.Background()

	id := models.Identity{Uid: "uid-1", Email: "ada@example.com"}
	sessions := make([]*Session, 4)
	var wg sync.WaitGroup
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Open(ctx, id, models.ClientInfo{})
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range sessions[1:] {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, 1, r.Len())

	assets, err := docs.ListAssets(ctx, "uid-1")
	require.NoError(t, err)
	assert.Len(t, assets, 5)
}
