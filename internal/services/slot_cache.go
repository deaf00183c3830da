package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// SlotCache memoizes the daily slot grid of a property. The store stays the
// source of truth: admission never consults the cache.
//
// Every (property, date) key carries a generation that Invalidate bumps. A
// miss returns the current generation and Set only stores the grid when the
// generation is unchanged, so a grid counted before a concurrent write is
// dropped instead of cached.
type SlotCache interface {
	Get(ctx context.Context, propertyID uuid.UUID, date time.Time) (slots []models.SlotAvailability, gen int64, ok bool)
	Set(ctx context.Context, propertyID uuid.UUID, date time.Time, gen int64, slots []models.SlotAvailability)
	Invalidate(ctx context.Context, propertyID uuid.UUID, date time.Time)
}

type redisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotCache(client *redis.Client) SlotCache {
	return &redisSlotCache{client: client, ttl: constants.SlotCacheTTL}
}

func slotCacheKey(propertyID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("slots:%s:%s", propertyID, date.Format(constants.VisitDateLayout))
}

func slotGenerationKey(propertyID uuid.UUID, date time.Time) string {
	return slotCacheKey(propertyID, date) + ":gen"
}

// *redis.Client and *redis.Tx
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func slotGeneration(ctx context.Context, getter redisGetter, key string) (int64, error) {
	gen, err := getter.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisSlotCache) Get(ctx context.Context, propertyID uuid.UUID, date time.Time) ([]models.SlotAvailability, int64, bool) {
	// The generation is read first; a write landing after this read bumps
	// it and turns the following Set into a no-op.
	gen, err := slotGeneration(ctx, c.client, slotGenerationKey(propertyID, date))
	if err != nil {
		utils.Logger.WithError(err).Warn("slot cache generation read failed")
		return nil, -1, false
	}

	data, err := c.client.Get(ctx, slotCacheKey(propertyID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false
	}
	if err != nil {
		utils.Logger.WithError(err).Warn("slot cache read failed")
		return nil, -1, false
	}
	var slots []models.SlotAvailability
	if err := json.Unmarshal(data, &slots); err != nil {
		utils.Logger.WithError(err).Warn("slot cache entry undecodable")
		return nil, gen, false
	}
	return slots, gen, true
}

func (c *redisSlotCache) Set(ctx context.Context, propertyID uuid.UUID, date time.Time, gen int64, slots []models.SlotAvailability) {
	if gen < 0 {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	genKey := slotGenerationKey(propertyID, date)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := slotGeneration(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleSlotGrid
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, slotCacheKey(propertyID, date), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleSlotGrid), errors.Is(err, redis.TxFailedErr):
		utils.Logger.WithField("propertyID", propertyID).Debug("slot grid changed while counting; not cached")
	default:
		utils.Logger.WithError(err).Warn("slot cache write failed")
	}
}

func (c *redisSlotCache) Invalidate(ctx context.Context, propertyID uuid.UUID, date time.Time) {
	genKey := slotGenerationKey(propertyID, date)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, constants.SlotGenerationTTL)
		pipe.Del(ctx, slotCacheKey(propertyID, date))
		return nil
	})
	if err != nil {
		utils.Logger.WithError(err).Warn("slot cache invalidation failed")
	}
}

var errStaleSlotGrid = errors.New("stale_slot_grid")

type nopSlotCache struct{}

// NewNopSlotCache is used when no redis is configured.
func NewNopSlotCache() SlotCache { return nopSlotCache{} }

func (nopSlotCache) Get(context.Context, uuid.UUID, time.Time) ([]models.SlotAvailability, int64, bool) {
	return nil, 0, false
}
func (nopSlotCache) Set(context.Context, uuid.UUID, time.Time, int64, []models.SlotAvailability) {}
func (nopSlotCache) Invalidate(context.Context, uuid.UUID, time.Time) {}
