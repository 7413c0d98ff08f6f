package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a queue item. Transitions only flow
// pending -> processing -> completed | failed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Operation is a deferred unit of work. Operations live only in memory;
// they are never serialized and cannot be recovered across a restart.
type Operation func(ctx context.Context) (any, error)

// Item is a queued operation together with its bookkeeping state.
type Item struct {
	ID            string
	Status        Status
	RetryCount    int
	CreatedAt     time.Time
	LastAttemptAt time.Time
	LastError     string
	Result        any
	Priority      int
	Metadata      map[string]any

	op  Operation
	seq uint64 // insertion order, tie-breaker for equal priorities
}

// Snapshot is the serializable projection of an Item, persisted for
// observability. The operation closure is deliberately absent.
type Snapshot struct {
	ID            string         `json:"id"`
	Status        Status         `json:"status"`
	RetryCount    int            `json:"retry_count"`
	CreatedAt     time.Time      `json:"created_at"`
	LastAttemptAt time.Time      `json:"last_attempt_at,omitempty"`
	LastError     string         `json:"last_error,omitempty"`
	Priority      int            `json:"priority"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

func (it *Item) snapshot() Snapshot {
	// Copy the metadata so callback consumers cannot race the persist
	// goroutine through a shared map.
	var md map[string]any
	if it.Metadata != nil {
		md = make(map[string]any, len(it.Metadata))
		for k, v := range it.Metadata {
			md[k] = v
		}
	}
	return Snapshot{
		ID:            it.ID,
		Status:        it.Status,
		RetryCount:    it.RetryCount,
		CreatedAt:     it.CreatedAt,
		LastAttemptAt: it.LastAttemptAt,
		LastError:     it.LastError,
		Priority:      it.Priority,
		Metadata:      md,
	}
}

// SnapshotStore persists queue metadata under a fixed session-scoped key.
type SnapshotStore interface {
	Save(ctx context.Context, snaps []Snapshot) error
	Load(ctx context.Context) ([]Snapshot, error)
}

func generateID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
