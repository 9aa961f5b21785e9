package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/sync"
)

const lastSummaryKey = "syncposhopify:last_summary"

// RedisSummaryStore keeps the last cycle summary in Redis so it survives
// process restarts and is visible to every replica of the admin surface.
type RedisSummaryStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSummaryStore creates a Redis-backed summary store. ttl bounds how
// long a stale summary is served; 0 keeps it forever.
func NewRedisSummaryStore(client *redis.Client, ttl time.Duration) *RedisSummaryStore {
	return &RedisSummaryStore{client: client, ttl: ttl}
}

// SetLast stores the latest cycle summary.
func (s *RedisSummaryStore) SetLast(ctx context.Context, summary sync.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := s.client.Set(ctx, lastSummaryKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	return nil
}

// GetLast retrieves the latest cycle summary.
func (s *RedisSummaryStore) GetLast(ctx context.Context) (sync.Summary, bool, error) {
	data, err := s.client.Get(ctx, lastSummaryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sync.Summary{}, false, nil
		}
		return sync.Summary{}, false, fmt.Errorf("failed to read summary: %w", err)
	}

	var summary sync.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return sync.Summary{}, false, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return summary, true, nil
}

var _ SummaryStore = (*RedisSummaryStore)(nil)
