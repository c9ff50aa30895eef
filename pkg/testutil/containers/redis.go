//go:build integration

// Package containers manages shared testcontainers instances for
// integration tests.
package containers

import (
	"context"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer wraps a testcontainers Redis instance.
type RedisContainer struct {
	Container testcontainers.Container
	Addr      string
	Client    *redis.Client
}

var (
	redisOnce      sync.Once
	sharedRedis    *RedisContainer
	sharedRedisErr error
)

// GetRedis returns the shared Redis container, starting it on first use.
// The container is shared across suites; Ryuk reaps it after the run.
func GetRedis(t *testing.T) *RedisContainer {
	t.Helper()

	redisOnce.Do(func() {
		sharedRedis, sharedRedisErr = startRedis()
	})
	if sharedRedisErr != nil {
		t.Fatalf("failed to start redis container: %v", sharedRedisErr)
	}
	return sharedRedis
}

func startRedis() (*RedisContainer, error) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, err
	}

	addr, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &RedisContainer{Container: container, Addr: addr, Client: client}, nil
}

// FlushAll removes all keys. Use between tests to ensure isolation.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
