package rdx

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

func Get(ctx context.Context, key string) (string, error) {
	return Conn.Get(ctx, key).Result()
}

func Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return Conn.Set(ctx, key, val, ttl).Err()
}

func Del(ctx context.Context, keys ...string) error {
	return Conn.Del(ctx, keys...).Err()
}

// SetNX acquires a best-effort lock; true means we hold it.
func SetNX(ctx context.Context, key, val string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(ctx, key, val, ttl).Result()
}

func Publish(ctx context.Context, channel string, payload []byte) error {
	return Conn.Publish(ctx, channel, payload).Err()
}
