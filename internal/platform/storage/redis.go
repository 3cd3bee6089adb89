package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the fields in a single hash. HSET and HDEL with several fields
// are single commands, so both are atomic.
type Redis struct {
	rdb redis.Cmdable
	key string
}

func NewRedis(rdb redis.Cmdable, key string) *Redis {
	return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	values, err := r.rdb.HMGet(ctx, r.key, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis HMGET %s: %w", r.key, err)
	}
	out := make(map[string]string, len(keys))
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (r *Redis) Set(ctx context.Context, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	args := make([]interface{}, 0, 2*len(fields))
	for k, v := range fields {
		args = append(args, k, v)
	}
	if err := r.rdb.HSet(ctx, r.key, args...).Err(); err != nil {
		return fmt.Errorf("redis HSET %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.HDel(ctx, r.key, keys...).Err(); err != nil {
		return fmt.Errorf("redis HDEL %s: %w", r.key, err)
	}
	return nil
}
