package cache

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisStore implements Store on a single redis client. It is constructed once
// at process start and shared; Close releases the connection pool.
type RedisStore struct {
	inner *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. The store owns the client from now
// on.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{inner: client}
}

// GetRedisStore connects to the redis configured through REDIS_HOST,
// REDIS_PORT, REDIS_PASSWD and REDIS_DB and verifies the connection. A failed
// ping still returns a usable store, the client reconnects on later calls.
func GetRedisStore(ctx context.Context) (*RedisStore, error) {
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "invalid REDIS_DB")
		}
		db = parsed
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password:     os.Getenv("REDIS_PASSWD"),
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     20,
		MinIdleConns: 5,
	})
	store := NewRedisStore(redisClient)
	if err := store.Ping(ctx); err != nil {
		return store, err
	}
	return store, nil
}

func unavailable(err error, op string, key string) error {
	return errors.Wrapf(ErrUnavailable, "%s %s: %v", op, key, err)
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.inner.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrMiss
	}
	if err != nil {
		return "", unavailable(err, "get", key)
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.inner.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable(err, "set", key)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.inner.Del(ctx, keys...).Err(); err != nil {
		return unavailable(err, "del", fmt.Sprint(keys))
	}
	return nil
}

func (r *RedisStore) ZAdd(ctx context.Context, key string, member string, score float64) error {
	if err := r.inner.ZAdd(ctx, key, &redis.Z{Score: score, Member: member}).Err(); err != nil {
		return unavailable(err, "zadd", key)
	}
	return nil
}

func (r *RedisStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	members, err := r.inner.ZRevRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, unavailable(err, "zrevrange", key)
	}
	return members, nil
}

func (r *RedisStore) ZRem(ctx context.Context, key string, member string) error {
	if err := r.inner.ZRem(ctx, key, member).Err(); err != nil {
		return unavailable(err, "zrem", key)
	}
	return nil
}

func (r *RedisStore) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := r.inner.ZCard(ctx, key).Result()
	if err != nil {
		return 0, unavailable(err, "zcard", key)
	}
	return n, nil
}

func (r *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := r.inner.Expire(ctx, key, ttl).Err(); err != nil {
		return unavailable(err, "expire", key)
	}
	return nil
}

func (r *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.inner.TTL(ctx, key).Result()
	if err != nil {
		return 0, unavailable(err, "ttl", key)
	}
	return ttl, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if _, err := r.inner.Ping(ctx).Result(); err != nil {
		return unavailable(err, "ping", "")
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.inner.Close()
}
