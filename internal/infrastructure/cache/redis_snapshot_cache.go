package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rentworks/backend/internal/domain/report"
)

// RedisSnapshotCache caches financial snapshots in Redis, for deployments
// running more than one instance behind a load balancer.
type RedisSnapshotCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisSnapshotCache creates a cache on an existing Redis client
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSnapshotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSnapshotCache{
		client:    client,
		keyPrefix: "rental:",
		ttl:       ttl,
		logger:    logger,
	}
}

// Get returns the cached snapshot for the key. Redis failures degrade to a
// cache miss rather than failing the request.
func (c *RedisSnapshotCache) Get(ctx context.Context, key string) (*report.CustomerFinancialSnapshot, bool) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var snapshot report.CustomerFinancialSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Warn("snapshot cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &snapshot, true
}

// Set stores a snapshot under the key with the configured TTL
func (c *RedisSnapshotCache) Set(ctx context.Context, key string, snapshot *report.CustomerFinancialSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn("failed to marshal snapshot for cache", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot cache write failed", zap.Error(err))
	}
}

// InvalidateCustomer drops every cached snapshot for the customer by
// scanning for the customer-prefixed keys.
func (c *RedisSnapshotCache) InvalidateCustomer(ctx context.Context, customerID uuid.UUID) error {
	return c.deleteByPattern(ctx, c.keyPrefix+"snapshot:"+customerID.String()+":*")
}

// InvalidateAll drops every cached snapshot
func (c *RedisSnapshotCache) InvalidateAll(ctx context.Context) error {
	return c.deleteByPattern(ctx, c.keyPrefix+"snapshot:*")
}

func (c *RedisSnapshotCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
