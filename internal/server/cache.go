package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	roomListKey = "rooms:list"
	roomListTTL = 2 * time.Second
)

// roomCache is an optional read-through cache for the room directory.
// Every browsing client re-lists on a short interval, so even a 2 s TTL
// collapses most of that load; singleflight collapses concurrent fills.
// With no redis configured the cache is a passthrough.
type roomCache struct {
	rdb    *redis.Client
	logger *slog.Logger
	group  singleflight.Group
}

func newRoomCache(rdb *redis.Client, logger *slog.Logger) *roomCache {
	return &roomCache{rdb: rdb, logger: logger}
}

func (c *roomCache) list(ctx context.Context, fill func(context.Context) ([]RoomSummary, error)) ([]RoomSummary, error) {
	if c.rdb == nil {
		return fill(ctx)
	}

	if data, err := c.rdb.Get(ctx, roomListKey).Bytes(); err == nil {
		var rooms []RoomSummary
		if json.Unmarshal(data, &rooms) == nil {
			return rooms, nil
		}
	}

	v, err, _ := c.group.Do(roomListKey, func() (any, error) {
		rooms, err := fill(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(rooms); err == nil {
			if err := c.rdb.Set(ctx, roomListKey, data, roomListTTL).Err(); err != nil {
				c.logger.Warn("caching room list", "error", err)
			}
		}
		return rooms, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]RoomSummary), nil
}

// invalidate drops the cached listing after any membership or room change.
func (c *roomCache) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, roomListKey).Err(); err != nil {
		c.logger.Warn("invalidating room list cache", "error", err)
	}
}
