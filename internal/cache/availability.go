package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
)

// AvailabilityCache keeps computed free-slot listings in redis for a short
// TTL. It is a display cache only: conflict decisions always go to the
// store, so a stale entry can never admit a double booking. Any write to a
// professional's day invalidates the whole day.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func slotKey(professionalID, serviceID uint, day string) string {
	return fmt.Sprintf("availability:%d:%d:%s", professionalID, serviceID, day)
}

func daySetKey(professionalID uint, day string) string {
	return fmt.Sprintf("availability-keys:%d:%s", professionalID, day)
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	professionalID uint,
	serviceID uint,
	day string,
) ([]domain.TimeSlot, bool) {

	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, slotKey(professionalID, serviceID, day)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	professionalID uint,
	serviceID uint,
	day string,
	slots []domain.TimeSlot,
) {

	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	key := slotKey(professionalID, serviceID, day)
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	// Track per-day keys so invalidation does not need a SCAN.
	pipe.SAdd(ctx, daySetKey(professionalID, day), key)
	pipe.Expire(ctx, daySetKey(professionalID, day), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Println("availability cache set:", err)
	}
}

// Invalidate drops every cached listing for the professional's day. Called
// after any appointment write touching that day.
func (c *AvailabilityCache) Invalidate(
	ctx context.Context,
	professionalID uint,
	day time.Time,
) {

	if c == nil || c.rdb == nil {
		return
	}

	setKey := daySetKey(professionalID, day.Format("2006-01-02"))
	keys, err := c.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return
	}

	keys = append(keys, setKey)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Println("availability cache invalidate:", err)
	}
}
