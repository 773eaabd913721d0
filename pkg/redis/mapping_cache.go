package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rickylandino/val-builder-api/pkg/metrics"
	"github.com/rickylandino/val-builder-api/pkg/models"
)

const mappingsKey = "bracket-mappings"

// MappingCache stores the bracket mapping table as one JSON value.
type MappingCache struct {
	client *Client
	ttl    time.Duration
}

func NewMappingCache(client *Client, ttl time.Duration) *MappingCache {
	return &MappingCache{client: client, ttl: ttl}
}

// Get returns the cached table. ok is false on a miss.
func (c *MappingCache) Get(ctx context.Context) (mappings []models.BracketMapping, ok bool, err error) {
	raw, err := c.client.rdb.Get(ctx, c.client.Key(mappingsKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordMappingCache("miss")
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordMappingCache("error")
		return nil, false, err
	}

	if err := json.Unmarshal(raw, &mappings); err != nil {
		metrics.RecordMappingCache("error")
		return nil, false, err
	}

	metrics.RecordMappingCache("hit")
	return mappings, true, nil
}

func (c *MappingCache) Set(ctx context.Context, mappings []models.BracketMapping) error {
	raw, err := json.Marshal(mappings)
	if err != nil {
		return err
	}
	return c.client.rdb.Set(ctx, c.client.Key(mappingsKey), raw, c.ttl).Err()
}

func (c *MappingCache) Invalidate(ctx context.Context) error {
	return c.client.rdb.Del(ctx, c.client.Key(mappingsKey)).Err()
}
