package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"evcharge/backend/services/reservations-service/internal/models"
)

// Durations the availability endpoint accepts; invalidation sweeps all of
// them for a date.
var supportedDurations = []int{30, 60, 90, 120, 150, 180}

// SlotsCache keeps computed availability answers in redis for a short TTL.
// Stale entries are acceptable: every booking is re-checked at admission.
type SlotsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlotsCache returns a redis-backed availability cache.
func NewSlotsCache(client *redis.Client, ttl time.Duration) *SlotsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SlotsCache{client: client, ttl: ttl}
}

func (c *SlotsCache) key(date string, durationMin int) string {
	return fmt.Sprintf("slots:%s:%d", date, durationMin)
}

// Get returns the cached answer for (date, duration), or redis.Nil.
func (c *SlotsCache) Get(ctx context.Context, date string, durationMin int) ([]models.SessionSlots, error) {
	payload, err := c.client.Get(ctx, c.key(date, durationMin)).Bytes()
	if err != nil {
		return nil, err
	}
	var sessions []models.SessionSlots
	if err := json.Unmarshal(payload, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Set stores the answer for (date, duration).
func (c *SlotsCache) Set(ctx context.Context, date string, durationMin int, sessions []models.SessionSlots) error {
	payload, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(date, durationMin), payload, c.ttl).Err()
}

// Invalidate drops every cached duration for the date after a write.
func (c *SlotsCache) Invalidate(ctx context.Context, date string) error {
	keys := make([]string, 0, len(supportedDurations))
	for _, d := range supportedDurations {
		keys = append(keys, c.key(date, d))
	}
	return c.client.Del(ctx, keys...).Err()
}
