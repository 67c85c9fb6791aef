// Package redis manages the optional redis client backing the shared prediction cache.
// A single address gives a standalone client, several give a cluster client.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/loanrisk/internal/config"
	"github.com/turtacn/loanrisk/pkg/logger"
)

const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
	dialTimeout         = 5 * time.Second
	ioTimeout           = 3 * time.Second
)

// RedisConnection manages the redis client lifecycle.
type RedisConnection struct {
	config *config.RedisConfig
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisConnection creates a connection manager. Nothing is dialed until Connect.
func NewRedisConnection(cfg *config.RedisConfig, log logger.Logger) *RedisConnection {
	return &RedisConnection{config: cfg, logger: log}
}

// Connect builds the client and verifies it with a ping.
func (rc *RedisConnection) Connect(ctx context.Context) error {
	if rc.client != nil {
		rc.logger.Warn(ctx, "Redis connection already initialized")
		return nil
	}
	if !rc.config.Enabled() {
		return fmt.Errorf("redis addresses not configured")
	}

	opts := &redis.UniversalOptions{
		Addrs:        rc.config.Addresses,
		Password:     rc.config.Password,
		DB:           rc.config.DB,
		PoolSize:     rc.config.PoolSize,
		MinIdleConns: rc.config.MinIdleConns,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = defaultPoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = defaultMinIdleConns
	}
	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		rc.logger.Error(ctx, "Redis ping failed", err, logger.Fields{"addrs": rc.config.Addresses})
		_ = client.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	rc.client = client
	rc.logger.Info(ctx, "Redis connection established",
		logger.Fields{"addrs": rc.config.Addresses},
		logger.Int("pool_size", opts.PoolSize),
	)
	return nil
}

// GetClient returns the client, or nil before Connect.
func (rc *RedisConnection) GetClient() redis.UniversalClient {
	return rc.client
}

// Ping checks server connectivity; used by the readiness probe.
func (rc *RedisConnection) Ping(ctx context.Context) error {
	if rc.client == nil {
		return fmt.Errorf("redis connection not initialized")
	}
	return rc.client.Ping(ctx).Err()
}

// Close releases the client.
func (rc *RedisConnection) Close() error {
	if rc.client == nil {
		return nil
	}
	if err := rc.client.Close(); err != nil {
		rc.logger.Error(context.Background(), "Failed to close Redis connection", err)
		return err
	}
	rc.client = nil
	rc.logger.Info(context.Background(), "Redis connection closed")
	return nil
}
