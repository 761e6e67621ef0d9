package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"safvacut-wallet-go/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrNoSnapshot = errors.New("no session snapshot")

// SnapshotStore persists the signed-in identity between requests.
type SnapshotStore interface {
	Save(ctx context.Context, identity models.Identity) error
	Load(ctx context.Context, uid string) (*models.Identity, error)
	Delete(ctx context.Context, uid string) error
}

// RedisSnapshotStore keeps one JSON snapshot per uid with a TTL.
type RedisSnapshotStore struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisSnapshotStore(rdb redis.UniversalClient, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb, ttl: ttl, prefix: "wallet:session"}
}

func (s *RedisSnapshotStore) key(uid string) string {
	return fmt.Sprintf("%s:{%s}", s.prefix, uid)
}

func (s *RedisSnapshotStore) Save(ctx context.Context, identity models.Identity) error {
	b, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(identity.Uid), b, s.ttl).Err()
}

func (s *RedisSnapshotStore) Load(ctx context.Context, uid string) (*models.Identity, error) {
	b, err := s.rdb.Get(ctx, s.key(uid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	var identity models.Identity
	if err := json.Unmarshal(b, &identity); err != nil {
		return nil, fmt.Errorf("corrupt session snapshot: %w", err)
	}
	return &identity, nil
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, uid string) error {
	return s.rdb.Del(ctx, s.key(uid)).Err()
}

// MemorySnapshotStore is used when Redis is disabled.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]models.Identity
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snapshots: make(map[string]models.Identity)}
}

func (s *MemorySnapshotStore) Save(_ context.Context, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[identity.Uid] = identity
	return nil
}

func (s *MemorySnapshotStore) Load(_ context.Context, uid string) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.snapshots[uid]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return &identity, nil
}

func (s *MemorySnapshotStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, uid)
	return nil
}
