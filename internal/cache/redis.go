package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wesleysambacht/booking/config"
	"github.com/wesleysambacht/booking/internal/domain"
)

const snapshotPrefix = "cache:availability:"

// RedisCache shares availability snapshots between replicas of the service.
type RedisCache struct {
	client      *redis.Client
	snapshotTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, snapshotTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		snapshotTTL: snapshotTTL,
	}
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, snapshotTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, snapshotTTL: snapshotTTL}
}

// GetSlots returns nil, nil on a miss.
func (c *RedisCache) GetSlots(ctx context.Context, startDate, endDate string) ([]domain.AvailabilitySlot, error) {
	data, err := c.client.Get(ctx, snapshotKey(startDate, endDate)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var slots []domain.AvailabilitySlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []domain.AvailabilitySlot{}
	}
	return slots, nil
}

func (c *RedisCache) SetSlots(ctx context.Context, startDate, endDate string, slots []domain.AvailabilitySlot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(startDate, endDate), payload, c.snapshotTTL).Err()
}

// Invalidate removes every cached window.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, snapshotPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func snapshotKey(startDate, endDate string) string {
	return fmt.Sprintf("%s%s:%s", snapshotPrefix, startDate, endDate)
}
