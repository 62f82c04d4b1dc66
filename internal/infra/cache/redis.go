// Package cache holds the redis-backed helpers of the booking flow. Every
// type is nil-safe: a nil value behaves as a disabled cache.
package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewClient connects to redis and pings it. An empty addr returns nil, which
// the helpers in this package treat as "disabled".
func NewClient(ctx context.Context, addr, password string, logger *zap.Logger) (*redis.Client, error) {
	if addr == "" {
		logger.Info("redis disabled, availability cache and idempotency keys off")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("redis connected", zap.String("addr", addr))
	return rdb, nil
}
