package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appreport "github.com/rentworks/backend/internal/application/report"
	"github.com/rentworks/backend/internal/infrastructure/config"
)

// NewSnapshotCache builds the snapshot cache selected by configuration.
// The redis backend connects eagerly so misconfiguration fails at startup.
func NewSnapshotCache(cfg *config.Config, logger *zap.Logger) (appreport.SnapshotCache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return NewInMemorySnapshotCache(cfg.Cache.TTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return NewRedisSnapshotCache(client, cfg.Cache.TTL, logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
