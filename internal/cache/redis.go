package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "rapidxcel:"

// RedisStorage implements fiber.Storage. Sessions, csrf tokens and rate
// limit counters share it, so they survive restarts and span processes.
type RedisStorage struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStorage{client: client, prefix: prefix, timeout: 3 * time.Second}
}

// Dial connects to addr and pings it before returning.
func Dial(addr, password string, db int) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "redis ping %s", addr)
	}
	return NewRedisStorage(client, ""), nil
}

func (r *RedisStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Get returns nil, nil for a missing key.
func (r *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := r.ctx()
	defer cancel()
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}
	return b, nil
}

// Set stores val; exp == 0 means no expiry.
func (r *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := r.ctx()
	defer cancel()
	return errors.Wrap(r.client.Set(ctx, r.prefix+key, val, exp).Err(), "redis set")
}

func (r *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := r.ctx()
	defer cancel()
	return errors.Wrap(r.client.Del(ctx, r.prefix+key).Err(), "redis del")
}

// Reset removes every key under the prefix.
func (r *RedisStorage) Reset() error {
	ctx, cancel := r.ctx()
	defer cancel()
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "redis scan")
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrap(r.client.Del(ctx, keys...).Err(), "redis del")
}

func (r *RedisStorage) Close() error { return r.client.Close() }
