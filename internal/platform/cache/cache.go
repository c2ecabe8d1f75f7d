// Package cache keeps the latest reading per subject and metric type in
// Redis so dashboard reads can skip the database. All operations are best
// effort; a nil client disables caching entirely.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds staleness when invalidation is missed.
const DefaultTTL = 24 * time.Hour

// VitalsCache stores the most recent metric per (subject, type).
type VitalsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a VitalsCache. A nil client yields a no-op cache.
func New(client *redis.Client, ttl time.Duration) *VitalsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &VitalsCache{client: client, ttl: ttl}
}

// Connect dials Redis at the given URL and verifies the connection.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *VitalsCache) key(subjectID, metricType string) string {
	return "vitals:latest:" + subjectID + ":" + metricType
}

// SetLatest stores v (JSON-encoded) as the latest reading for the subject
// and metric type. A reading recorded before the currently cached one is
// ignored, so backdated writes and historical imports never displace a
// newer entry.
func (c *VitalsCache) SetLatest(ctx context.Context, subjectID, metricType string, recordedAt time.Time, v any) error {
	if c.client == nil {
		return nil
	}
	key := c.key(subjectID, metricType)

	existing, err := c.client.Get(ctx, key).Bytes()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("cache get: %w", err)
	}
	if err == nil {
		var current struct {
			RecordedAt time.Time `json:"recorded_at"`
		}
		// An undecodable entry is simply overwritten.
		if json.Unmarshal(existing, &current) == nil && current.RecordedAt.After(recordedAt) {
			return nil
		}
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cached metric: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// GetLatest loads the cached latest reading into dest. Returns false on a
// miss or when caching is disabled.
func (c *VitalsCache) GetLatest(ctx context.Context, subjectID, metricType string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	payload, err := c.client.Get(ctx, c.key(subjectID, metricType)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cached metric: %w", err)
	}
	return true, nil
}

// InvalidateSubject drops every cached reading for the subject.
func (c *VitalsCache) InvalidateSubject(ctx context.Context, subjectID string) error {
	if c.client == nil {
		return nil
	}
	var cursor uint64
	pattern := "vitals:latest:" + subjectID + ":*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
