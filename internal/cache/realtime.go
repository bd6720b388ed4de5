package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"pulsewatch/internal/domain"
)

const latestKeyFormat = "pulsewatch:vitals:%s:latest"

// RealtimeCache keeps the most recent reading per employee in Redis so
// dashboards read live vitals without hitting the store.
type RealtimeCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRealtimeCache creates a cache with the given entry TTL.
func NewRealtimeCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RealtimeCache {
	return &RealtimeCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// UpdateLatest stores the reading as the employee's current vitals.
func (c *RealtimeCache) UpdateLatest(ctx context.Context, employeeID string, reading domain.VitalsReading) error {
	key := fmt.Sprintf(latestKeyFormat, employeeID)

	jsonData, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	if err := c.client.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set latest vitals: %w", err)
	}

	c.logger.Debug("Updated latest vitals cache",
		zap.String("employee_id", employeeID),
		zap.String("key", key),
	)

	return nil
}

// GetLatest reads the employee's current vitals. Returns (nil, nil) on a
// cache miss.
func (c *RealtimeCache) GetLatest(ctx context.Context, employeeID string) (*domain.VitalsReading, error) {
	key := fmt.Sprintf(latestKeyFormat, employeeID)

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest vitals: %w", err)
	}

	var reading domain.VitalsReading
	if err := json.Unmarshal([]byte(val), &reading); err != nil {
		return nil, fmt.Errorf("failed to unmarshal latest vitals: %w", err)
	}

	return &reading, nil
}
