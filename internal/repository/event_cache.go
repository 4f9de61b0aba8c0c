package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

const eventsCacheKey = "catalog:events"

// CachedEventRepository is a read-through Redis cache in front of the event
// catalogue. Function instances are stateless, so warm snapshots are shared
// across instances through Redis instead of per-process memory; the TTL
// bounds how stale a served snapshot can be.
//
// Cache failures degrade to the underlying repository: a broken Redis never
// takes the catalogue down, it only makes it slower.
type CachedEventRepository struct {
	inner EventRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedEventRepository(inner EventRepository, rdb *redis.Client, ttl time.Duration) *CachedEventRepository {
	return &CachedEventRepository{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedEventRepository) ListAll(ctx context.Context) ([]domain.EventDTO, error) {
	if raw, err := c.rdb.Get(ctx, eventsCacheKey).Bytes(); err == nil {
		var events []domain.EventDTO
		if err := json.Unmarshal(raw, &events); err == nil {
			return events, nil
		}
		// Unreadable payloads are dropped so the next read repopulates.
		c.rdb.Del(ctx, eventsCacheKey)
	} else if err != redis.Nil {
		slog.Warn("events cache read failed", "err", err)
	}

	events, err := c.inner.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(events); err == nil {
		if err := c.rdb.Set(ctx, eventsCacheKey, raw, c.ttl).Err(); err != nil {
			slog.Warn("events cache write failed", "err", err)
		}
	}
	return events, nil
}

func (c *CachedEventRepository) GetBySlug(ctx context.Context, slug string) (*domain.EventDTO, error) {
	return c.inner.GetBySlug(ctx, slug)
}

// Invalidate drops the cached snapshot, forcing the next read to hit the
// catalogue. Called after writes that change event visibility.
func (c *CachedEventRepository) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, eventsCacheKey).Err(); err != nil {
		slog.Warn("events cache invalidation failed", "err", err)
	}
}
