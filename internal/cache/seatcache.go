package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"transitbook/internal/domain/models"
	"transitbook/internal/utils"
)

// SeatCache keeps short-lived copies of upstream seat listings so repeated
// grid renders within one selection session do not hammer the inventory API.
// The upstream stays the sole arbiter: entries expire quickly and are dropped
// outright when the selected trip changes. A nil client degrades to misses.
type SeatCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func seatKey(tripID int64) string {
	return "transitbook:seats:trip:" + strconv.FormatInt(tripID, 10)
}

// Get returns the cached seat list for a trip, or found=false on any miss or
// redis trouble.
func (c SeatCache) Get(ctx context.Context, tripID int64) ([]models.Seat, bool) {
	if c.RDB == nil || tripID <= 0 {
		return nil, false
	}
	raw, err := c.RDB.Get(ctx, seatKey(tripID)).Bytes()
	if err != nil {
		return nil, false
	}
	var seats []models.Seat
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false
	}
	return seats, true
}

// Set stores a seat list with the configured TTL. Failures are logged, never
// surfaced; the cache is best-effort.
func (c SeatCache) Set(ctx context.Context, requestID string, tripID int64, seats []models.Seat) {
	if c.RDB == nil || tripID <= 0 {
		return
	}
	raw, err := json.Marshal(seats)
	if err != nil {
		return
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if err := c.RDB.Set(ctx, seatKey(tripID), raw, ttl).Err(); err != nil {
		utils.LogEvent(requestID, "cache", "set_seats", "redis set failed: "+err.Error())
	}
}

// Invalidate drops the cached seats for a trip, used when the selection moves
// to a different bus/route/date and right before payment re-validation.
func (c SeatCache) Invalidate(ctx context.Context, requestID string, tripID int64) {
	if c.RDB == nil || tripID <= 0 {
		return
	}
	if err := c.RDB.Del(ctx, seatKey(tripID)).Err(); err != nil {
		utils.LogEvent(requestID, "cache", "invalidate_seats", "redis del failed: "+err.Error())
	}
}
