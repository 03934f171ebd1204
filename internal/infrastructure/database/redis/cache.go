package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "cache serialization failed")
)

// Cache stores JSON-serialized query results.  Filter and grouping answers
// are derived purely from the loaded table, so entries only need to survive
// until the next reload; DeleteByPrefix wipes them all at that point.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
		loader func(ctx context.Context) (interface{}, error)) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
}

type redisCache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	group      singleflight.Group
}

// CacheOption customises a cache built by NewCache.
type CacheOption func(*redisCache)

// WithPrefix sets the key namespace prepended to every cache key.
func WithPrefix(prefix string) CacheOption {
	return func(c *redisCache) { c.prefix = prefix }
}

// WithDefaultTTL sets the expiry used when Set receives a zero ttl.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

// NewCache builds a Redis-backed cache.
func NewCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &redisCache{
		client:     client,
		logger:     log,
		prefix:     "rxndb:",
		defaultTTL: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) key(k string) string { return c.prefix + k }

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	rdb, err := c.client.Raw()
	if err != nil {
		return err
	}
	data, err := rdb.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache get failed")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	rdb, err := c.client.Raw()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := rdb.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set failed")
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	rdb, err := c.client.Raw()
	if err != nil {
		return err
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := rdb.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}

// GetOrSet returns the cached value for key, or runs loader once per key
// across concurrent callers, caches its result, and returns it.  Loader
// failures are not cached.
func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
	loader func(ctx context.Context) (interface{}, error)) error {

	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		c.logger.Warn("cache read failed, falling through to loader",
			logging.String("key", key), logging.Err(err))
	}

	data, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, ErrSerializationFailed.WithCause(err)
		}
		if err := c.Set(ctx, key, value, ttl); err != nil {
			// A failed write only costs a recomputation next time.
			c.logger.Warn("cache write failed", logging.String("key", key), logging.Err(err))
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data.([]byte), dest); err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	return nil
}

// DeleteByPrefix removes every key under prefix (relative to the cache's
// namespace) and reports how many were deleted.
func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	rdb, err := c.client.Raw()
	if err != nil {
		return 0, err
	}

	var deleted int64
	iter := rdb.Scan(ctx, 0, c.key(prefix)+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := rdb.Del(ctx, batch...).Result()
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeCacheError, "cache prefix delete failed")
		}
		deleted += n
		batch = batch[:0]
		return nil
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "cache scan failed")
	}
	if err := flush(); err != nil {
		return deleted, err
	}
	return deleted, nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}
