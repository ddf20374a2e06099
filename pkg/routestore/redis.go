package routestore

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps routes in Redis, shared between server instances.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	closed atomic.Bool
}

// RedisStoreOption configures RedisStore behavior.
type RedisStoreOption func(*redisStoreConfig)

type redisStoreConfig struct {
	prefix string
	ttl    time.Duration
}

// WithRedisPrefix sets the key prefix.
// Default: "flxrouter:route:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(c *redisStoreConfig) {
		c.prefix = prefix
	}
}

// WithRedisTTL expires stored routes after d. Zero keeps them forever.
func WithRedisTTL(d time.Duration) RedisStoreOption {
	return func(c *redisStoreConfig) {
		c.ttl = d
	}
}

// NewRedisStore creates a store on top of an existing client.
// The client is not closed by Close, as it may be shared.
func NewRedisStore(client redis.Cmdable, opts ...RedisStoreOption) *RedisStore {
	cfg := &redisStoreConfig{
		prefix: "flxrouter:route:",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.prefix,
		ttl:    cfg.ttl,
	}
}

// DialRedis connects to addr and checks the connection with a PING.
func DialRedis(ctx context.Context, addr, password string, db int, opts ...RedisStoreOption) (*RedisStore, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return NewRedisStore(client, opts...), client, nil
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

// Load returns the URL stored under key.
func (r *RedisStore) Load(ctx context.Context, key string) (string, bool, error) {
	if r.closed.Load() {
		return "", false, ErrStoreClosed{}
	}

	url, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}

	return url, true, nil
}

// Save stores url under key.
func (r *RedisStore) Save(ctx context.Context, key string, url string) error {
	if r.closed.Load() {
		return ErrStoreClosed{}
	}

	return r.client.Set(ctx, r.key(key), url, r.ttl).Err()
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if r.closed.Load() {
		return ErrStoreClosed{}
	}

	return r.client.Del(ctx, r.key(key)).Err()
}

// Close marks the store as closed.
func (r *RedisStore) Close() error {
	r.closed.Store(true)
	return nil
}

// Prefix returns the key prefix.
func (r *RedisStore) Prefix() string {
	return r.prefix
}
