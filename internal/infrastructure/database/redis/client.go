// Package redis provides the explorer's Redis client and the query-result
// cache built on it.  Caching is optional: a deployment without a configured
// Redis address runs fully in memory.
package redis

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/rxndb-explorer/internal/config"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeInternal, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeCacheError, "redis connection failed")
)

// Client wraps a go-redis client with lifecycle management.
type Client struct {
	rdb    *redis.Client
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects to the Redis instance described by cfg and verifies
// the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err)
	}

	log.Info("connected to redis", logging.String("addr", cfg.Addr), logging.Int("db", cfg.DB))
	return &Client{rdb: rdb, logger: log}, nil
}

// Raw returns the underlying go-redis client, or an error after Close.
func (c *Client) Raw() (*redis.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	return c.rdb, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	rdb, err := c.Raw()
	if err != nil {
		return err
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return ErrConnectionFailed.WithCause(err)
	}
	return nil
}

// Close releases the connection pool.  Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rdb.Close()
}
