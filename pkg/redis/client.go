package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// Client wraps the Redis client with logging and a key namespace
type Client struct {
	rdb    *redis.Client
	prefix string
	logger ectologger.Logger
}

// NewClient connects and pings Redis
func NewClient(ctx context.Context, cfg Config, logger ectologger.Logger) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.WithContext(ctx).Infof("Connected to Redis at %s", addr)

	return NewClientFrom(rdb, cfg.KeyPrefix, logger), nil
}

// NewClientFrom wraps an existing connection.
func NewClientFrom(rdb *redis.Client, prefix string, logger ectologger.Logger) *Client {
	if prefix == "" {
		prefix = "valbuilder:"
	}
	return &Client{rdb: rdb, prefix: prefix, logger: logger}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Key namespaces k under the client prefix.
func (c *Client) Key(k string) string {
	return c.prefix + k
}
