// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"luis-provisioner/internal/common/config"
	apperrors "luis-provisioner/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis connects to Redis and pings it. A run makes only a few state
// calls, so the pool is kept small.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	if !cfg.Enabled() {
		return nil, apperrors.NewConfigInvalidError("state.redis.address is required")
	}

	c := &RedisClient{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
		MaxRetries:   1,
	})}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("state store %s unavailable: %w", cfg.Address, err)
	}

	return c, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
