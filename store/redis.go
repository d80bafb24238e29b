// Package store provides StateStore backends beyond the in-memory default.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore implements personasim.StateStore on Redis. Keys are
// namespaced as "{prefix}:{namespace}:{key}" for KV and
// "{prefix}:{namespace}:list:{key}" for lists. RPUSH plus LTRIM gives
// the capped ordered-list semantics natively: appenders never check,
// TrimList keeps the newest maxSize entries.
type RedisStateStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// Config tunes the Redis store.
type Config struct {
	Prefix string        // key prefix, default "persona"
	TTL    time.Duration // default TTL for KV entries, 0 = no expiry
}

// NewRedisStateStore wraps an existing go-redis client.
func NewRedisStateStore(client redis.UniversalClient, config ...Config) *RedisStateStore {
	cfg := Config{Prefix: "persona"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "persona"
	}
	return &RedisStateStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		ctx:    context.Background(),
	}
}

func (r *RedisStateStore) kvKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, namespace, key)
}

func (r *RedisStateStore) listKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:list:%s", r.prefix, namespace, key)
}

func (r *RedisStateStore) Get(namespace, key string) (string, error) {
	val, err := r.client.Get(r.ctx, r.kvKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (r *RedisStateStore) Set(namespace, key, value string) error {
	return r.client.Set(r.ctx, r.kvKey(namespace, key), value, r.ttl).Err()
}

func (r *RedisStateStore) Delete(namespace, key string) error {
	return r.client.Del(r.ctx, r.kvKey(namespace, key)).Err()
}

func (r *RedisStateStore) ListKeys(namespace string) ([]string, error) {
	pattern := fmt.Sprintf("%s:%s:*", r.prefix, namespace)
	keys, err := r.client.Keys(r.ctx, pattern).Result()
	if err != nil {
		return nil, err
	}
	prefixLen := len(fmt.Sprintf("%s:%s:", r.prefix, namespace))
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(k) > prefixLen {
			result = append(result, k[prefixLen:])
		}
	}
	return result, nil
}

func (r *RedisStateStore) Append(namespace, key, value string) error {
	return r.client.RPush(r.ctx, r.listKey(namespace, key), value).Err()
}

func (r *RedisStateStore) GetList(namespace, key string, limit, offset int) ([]string, error) {
	start := int64(offset)
	stop := int64(-1)
	if limit > 0 {
		stop = start + int64(limit) - 1
	}
	vals, err := r.client.LRange(r.ctx, r.listKey(namespace, key), start, stop).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return vals, nil
}

func (r *RedisStateStore) TrimList(namespace, key string, maxSize int) error {
	if maxSize <= 0 {
		return nil
	}
	return r.client.LTrim(r.ctx, r.listKey(namespace, key), int64(-maxSize), -1).Err()
}

func (r *RedisStateStore) ClearList(namespace, key string) error {
	return r.client.Del(r.ctx, r.listKey(namespace, key)).Err()
}

func (r *RedisStateStore) ListLength(namespace, key string) (int, error) {
	n, err := r.client.LLen(r.ctx, r.listKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return int(n), nil
}
