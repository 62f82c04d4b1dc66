package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

var ErrRequestInProgress = httperr.ErrConflict("request_in_progress")

const pendingPrefix = "pending:"

// IdempotencyStore remembers which appointment a client-supplied
// Idempotency-Key produced.
type IdempotencyStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *IdempotencyStore {
	if rdb == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl, logger: logger}
}

// Reservation is held by the one request allowed to do the work for a key.
type Reservation struct {
	key   string
	token string
}

func idempotencyKey(tenantID uint, key string) string {
	return fmt.Sprintf("idem:%d:%s", tenantID, key)
}

// Begin reserves key for the caller. When an earlier request already
// finished, it returns that request's appointment id and a nil reservation.
// A request still in flight yields ErrRequestInProgress.
func (s *IdempotencyStore) Begin(ctx context.Context, tenantID uint, key string) (*Reservation, uint, error) {
	if s == nil || key == "" {
		return nil, 0, nil
	}

	res := &Reservation{key: idempotencyKey(tenantID, key), token: uuid.NewString()}
	ok, err := s.rdb.SetNX(ctx, res.key, pendingPrefix+res.token, s.ttl).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return res, 0, nil
	}

	v, err := s.rdb.Get(ctx, res.key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; treat as in flight and let the
		// client retry
		return nil, 0, ErrRequestInProgress
	}
	if err != nil {
		return nil, 0, fmt.Errorf("idempotency lookup: %w", err)
	}

	id, perr := strconv.ParseUint(v, 10, 64)
	if perr != nil {
		return nil, 0, ErrRequestInProgress
	}
	return nil, uint(id), nil
}

// Complete records the appointment id for later replays.
func (s *IdempotencyStore) Complete(ctx context.Context, res *Reservation, appointmentID uint) {
	if s == nil || res == nil {
		return
	}
	if err := s.rdb.Set(ctx, res.key, strconv.FormatUint(uint64(appointmentID), 10), s.ttl).Err(); err != nil {
		s.logger.Warn("idempotency complete failed", zap.Error(err))
	}
}

// Release frees the key after a failed attempt so the client can retry.
// Only the holder's own pending marker is removed.
func (s *IdempotencyStore) Release(ctx context.Context, res *Reservation) {
	if s == nil || res == nil {
		return
	}
	v, err := s.rdb.Get(ctx, res.key).Result()
	if err != nil || v != pendingPrefix+res.token {
		return
	}
	if err := s.rdb.Del(ctx, res.key).Err(); err != nil {
		s.logger.Warn("idempotency release failed", zap.Error(err))
	}
}
