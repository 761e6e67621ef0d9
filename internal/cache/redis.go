package cache

import (
	"context"
	"fmt"
	"time"

	"safvacut-wallet-go/internal/models"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a client and pings it once.
func ConnectRedis(ctx context.Context, cfg models.RedisConfig) (redis.UniversalClient, error) {
	opts := &redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     1 * time.Second,
		ReadTimeout:     400 * time.Millisecond,
		WriteTimeout:    400 * time.Millisecond,
		PoolSize:        50,
		MinIdleConns:    5,
		PoolTimeout:     750 * time.Millisecond,
		ConnMaxIdleTime: 90 * time.Second,
		MaxRetries:      0,

		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			_ = cn.ClientSetName(ctx, "safvacut-wallet").Err()
			return nil
		},
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return rdb, nil
}
