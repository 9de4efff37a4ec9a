package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared Store used when more than one node serves traffic.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, tag string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, tag).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", tag, err)
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, tag string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, tag, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", tag, err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, tags...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
