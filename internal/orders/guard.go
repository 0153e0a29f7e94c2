package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const inFlightScope = "order"

// InFlightGuard serializes mutating requests against a single order id.
// Requests for distinct orders proceed independently.
type InFlightGuard interface {
	Acquire(ctx context.Context, orderID uuid.UUID) (bool, error)
	Release(ctx context.Context, orderID uuid.UUID) error
}

type guardStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	InFlightKey(scope, id string) string
}

type redisGuard struct {
	store guardStore
	ttl   time.Duration
}

// NewInFlightGuard builds a Redis-backed guard. The TTL bounds how long a
// guard can stay held if the holding process dies before releasing it.
func NewInFlightGuard(store guardStore, ttl time.Duration) (InFlightGuard, error) {
	if store == nil {
		return nil, errors.New("redis store required for in-flight guard")
	}
	if ttl <= 0 {
		return nil, errors.New("in-flight guard ttl must be positive")
	}
	return &redisGuard{store: store, ttl: ttl}, nil
}

func (g *redisGuard) Acquire(ctx context.Context, orderID uuid.UUID) (bool, error) {
	key := g.store.InFlightKey(inFlightScope, orderID.String())
	return g.store.SetNX(ctx, key, "1", g.ttl)
}

func (g *redisGuard) Release(ctx context.Context, orderID uuid.UUID) error {
	key := g.store.InFlightKey(inFlightScope, orderID.String())
	return g.store.Del(ctx, key)
}
