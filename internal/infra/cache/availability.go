package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityCache stores busy-filtered slot lists per (tenant,
// professional, date). Entries hang off a per-tenant generation counter;
// bumping the counter orphans every entry of the tenant at once.
//
// Cached lists are taken before the "now" cutoff, so they stay valid for the
// whole day and the caller applies the cutoff on every read.
type AvailabilityCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *AvailabilityCache {
	if rdb == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl, logger: logger}
}

func generationKey(tenantID uint) string {
	return fmt.Sprintf("avail:v:%d", tenantID)
}

func scopeLabel(professionalID *uint) string {
	if professionalID == nil {
		return "all"
	}
	return strconv.FormatUint(uint64(*professionalID), 10)
}

// Generation must be read before the store is queried, so a mutation that
// commits in between lands on a newer generation.
func (c *AvailabilityCache) Generation(ctx context.Context, tenantID uint) int64 {
	if c == nil {
		return 0
	}
	v, err := c.rdb.Get(ctx, generationKey(tenantID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("availability cache generation read failed", zap.Error(err))
	}
	return v
}

func (c *AvailabilityCache) slotsKey(tenantID uint, gen int64, professionalID *uint, date string) string {
	return fmt.Sprintf("avail:%d:%d:%s:%s", tenantID, gen, scopeLabel(professionalID), date)
}

// Get returns the cached list and true on a hit.
func (c *AvailabilityCache) Get(ctx context.Context, tenantID uint, gen int64, professionalID *uint, date string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.slotsKey(tenantID, gen, professionalID, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("availability cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) Set(ctx context.Context, tenantID uint, gen int64, professionalID *uint, date string, slots []string) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.slotsKey(tenantID, gen, professionalID, date), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("availability cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached list of the tenant. Call it after the
// mutating transaction has committed.
func (c *AvailabilityCache) Invalidate(ctx context.Context, tenantID uint) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, generationKey(tenantID)).Err(); err != nil {
		c.logger.Warn("availability cache invalidation failed",
			zap.Uint("tenant_id", tenantID),
			zap.Error(err),
		)
	}
}
