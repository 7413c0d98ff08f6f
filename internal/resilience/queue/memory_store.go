package queue

import (
	"context"
	"sync"
)

// MemoryStore is a process-local SnapshotStore, used when no Redis is
// configured. Contents vanish with the process, which matches the
// session-scoped semantics of the snapshot.
type MemoryStore struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, snaps []Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = make([]Snapshot, len(snaps))
	copy(s.snaps, snaps)
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out, nil
}
