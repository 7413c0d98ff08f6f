package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vietddude/storyforge/internal/resilience/queue"
)

const (
	snapshotKey = "storyforge:queue:snapshot"
	snapshotTTL = 12 * time.Hour
)

// SnapshotStore persists queue metadata to Redis under a fixed key. The TTL
// keeps the key session-scoped: a stale snapshot from a long-dead session
// ages out on its own. Only metadata is stored; operations are never
// reconstructable from it.
type SnapshotStore struct {
	rdb *redis.Client
}

// NewSnapshotStore creates a Redis-backed queue snapshot store.
func NewSnapshotStore(client *Client) *SnapshotStore {
	return &SnapshotStore{rdb: client.rdb}
}

// Save replaces the stored snapshot with the given items.
func (s *SnapshotStore) Save(ctx context.Context, snaps []queue.Snapshot) error {
	data, err := json.Marshal(snaps)
	if err != nil {
		return fmt.Errorf("failed to marshal queue snapshot: %w", err)
	}

	if err := s.rdb.Set(ctx, snapshotKey, data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to set queue snapshot: %w", err)
	}
	return nil
}

// Load returns the last stored snapshot, or nil when none exists.
func (s *SnapshotStore) Load(ctx context.Context) ([]queue.Snapshot, error) {
	data, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue snapshot: %w", err)
	}

	var snaps []queue.Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue snapshot: %w", err)
	}
	return snaps, nil
}
