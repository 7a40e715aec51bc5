package kvstore

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SlotKey(name string) string
}

// Redis stores slots as plain string values, which lets every API instance
// pointed at the same server share one catalog.
type Redis struct {
	client redisClient
}

func NewRedis(client redisClient) (*Redis, error) {
	if client == nil {
		return nil, errors.New("kvstore: redis client is required")
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.client.SlotKey(key))
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("redis get", err)
	}
	return []byte(v), nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.client.SlotKey(key), string(value), 0); err != nil {
		return unavailable("redis set", err)
	}
	return nil
}
