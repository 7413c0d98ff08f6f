// Package queue defers operations while the client is offline and replays
// them sequentially once connectivity returns.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vietddude/storyforge/internal/metrics"
	"github.com/vietddude/storyforge/internal/resilience/retry"
)

var (
	// ErrDuplicateID is returned when Add is called with an ID that is
	// already live in the queue.
	ErrDuplicateID = errors.New("queue: duplicate item id")

	// ErrClosed is returned when the manager has been closed.
	ErrClosed = errors.New("queue: manager closed")
)

// Callbacks are the lifecycle hooks fired by the Manager. All fields are
// optional. Callbacks run synchronously on the calling goroutine and receive
// detached snapshots, never live items.
type Callbacks struct {
	OnItemAdded     func(item Snapshot)
	OnItemCompleted func(item Snapshot, result any)
	OnItemFailed    func(item Snapshot, err error)
	OnQueueEmpty    func()
	OnOnlineResume  func()
}

// Config configures a Manager.
type Config struct {
	// Policy is the retry policy applied per item. OnRetry is owned by the
	// manager and overwritten.
	Policy retry.Policy

	// Store persists item metadata. Nil disables persistence.
	Store SnapshotStore

	Callbacks Callbacks

	// Online is the initial connectivity flag, taken from the platform
	// signal at construction time.
	Online bool

	Logger *slog.Logger
}

// AddOptions customize a queued item.
type AddOptions struct {
	ID       string
	Priority int
	Metadata map[string]any
}

// Manager holds pending operations and drives sequential processing of the
// backlog while connectivity is available. Construct one per process and
// inject it; there is no package-level singleton.
type Manager struct {
	policy retry.Policy
	store  SnapshotStore
	cb     Callbacks
	log    *slog.Logger

	// persistMu serializes snapshot saves: Add and the drain goroutine both
	// persist, and interleaved saves could leave a stale snapshot as the
	// last writer.
	persistMu sync.Mutex

	mu        sync.Mutex
	items     map[string]*Item
	seq       uint64
	online    bool
	draining  bool
	closed    bool
	recovered []Snapshot
}

// NewManager creates a Manager. Any metadata snapshot left by a previous
// session is read back for diagnostics (see Recovered) but never turned
// back into executable items: operation closures do not survive a restart.
func NewManager(cfg Config) *Manager {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	m := &Manager{
		policy: cfg.Policy,
		store:  cfg.Store,
		cb:     cfg.Callbacks,
		log:    log,
		items:  make(map[string]*Item),
		online: cfg.Online,
	}

	if cfg.Store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snaps, err := cfg.Store.Load(ctx)
		if err != nil {
			log.Warn("failed to load queue snapshot", "error", err)
		} else if len(snaps) > 0 {
			m.recovered = snaps
			log.Info("recovered queue metadata from previous session",
				"items", len(snaps))
		}
	}

	setOnlineGauge(cfg.Online)
	return m
}

// Add enqueues an operation. The item starts pending; if the manager is
// online and not already draining, processing is triggered asynchronously.
// A colliding caller-supplied ID is rejected with ErrDuplicateID rather
// than silently replacing the existing item.
func (m *Manager) Add(op Operation, opts AddOptions) (string, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrClosed
	}

	id := opts.ID
	if id == "" {
		id = generateID()
	}
	if _, exists := m.items[id]; exists {
		m.mu.Unlock()
		return "", ErrDuplicateID
	}

	m.seq++
	item := &Item{
		ID:        id,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		Priority:  opts.Priority,
		Metadata:  opts.Metadata,
		op:        op,
		seq:       m.seq,
	}
	m.items[id] = item
	metrics.QueueDepth.Set(float64(len(m.items)))

	snap := item.snapshot()
	trigger := m.online && !m.draining
	m.mu.Unlock()

	if m.cb.OnItemAdded != nil {
		m.cb.OnItemAdded(snap)
	}
	m.persist(context.Background())

	if trigger {
		go m.Process(context.Background())
	}
	return id, nil
}

// Remove deletes a pending or failed item and reports whether it existed.
// An item currently processing cannot be removed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	item, ok := m.items[id]
	if !ok || item.Status == StatusProcessing {
		m.mu.Unlock()
		return false
	}
	delete(m.items, id)
	metrics.QueueDepth.Set(float64(len(m.items)))
	m.mu.Unlock()

	m.persist(context.Background())
	return true
}

// Clear empties the queue unconditionally.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.items = make(map[string]*Item)
	metrics.QueueDepth.Set(0)
	m.mu.Unlock()

	m.persist(context.Background())
}

// Size returns the number of live items, regardless of status.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// PendingCount returns the number of items waiting to be processed.
func (m *Manager) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		if it.Status == StatusPending {
			n++
		}
	}
	return n
}

// Items returns a read-only snapshot of all live items in insertion order.
func (m *Manager) Items() []Snapshot {
	m.mu.Lock()
	items := make([]*Item, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, it)
	}
	m.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })

	snaps := make([]Snapshot, len(items))
	for i, it := range items {
		snaps[i] = it.snapshot()
	}
	return snaps
}

// Recovered returns the metadata snapshot left by a previous session, for
// diagnostics only.
func (m *Manager) Recovered() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Snapshot, len(m.recovered))
	copy(out, m.recovered)
	return out
}

// Online reports the current connectivity flag.
func (m *Manager) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a connectivity transition. Going online fires
// OnOnlineResume and retriggers processing; going offline only flips the
// flag so an in-flight item finishes naturally but no new item starts.
func (m *Manager) SetOnline(online bool) {
	m.mu.Lock()
	if m.closed || m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	m.mu.Unlock()

	setOnlineGauge(online)

	if online {
		m.log.Info("connectivity restored, resuming queue")
		if m.cb.OnOnlineResume != nil {
			m.cb.OnOnlineResume()
		}
		go m.Process(context.Background())
	} else {
		m.log.Info("connectivity lost, queue paused")
	}
}

// Process drains the backlog one item at a time in priority-descending,
// insertion-stable order. It is idempotent: a no-op when a drain is already
// running or the manager is offline. The pass stops early if connectivity
// is lost. OnQueueEmpty fires after a pass that found nothing left pending;
// by then the drain flag is already clear, so an Add made from inside the
// callback schedules a fresh drain.
func (m *Manager) Process(ctx context.Context) {
	m.mu.Lock()
	if m.draining || !m.online || m.closed {
		m.mu.Unlock()
		return
	}
	m.draining = true
	m.mu.Unlock()

	for {
		m.mu.Lock()
		if !m.online || m.closed {
			m.draining = false
			m.mu.Unlock()
			return
		}
		item := m.nextPendingLocked()
		if item == nil {
			// Clear the flag in the same critical section that found
			// nothing pending. Any Add landing after this point sees
			// draining false and schedules its own drain, so an item
			// enqueued from inside OnQueueEmpty is never stranded.
			m.draining = false
			m.mu.Unlock()
			break
		}
		m.mu.Unlock()
		m.processItem(ctx, item)
	}

	if m.cb.OnQueueEmpty != nil {
		m.cb.OnQueueEmpty()
	}
}

// Close detaches the manager and clears the queue. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.items = make(map[string]*Item)
	metrics.QueueDepth.Set(0)
	m.mu.Unlock()

	m.persist(context.Background())
}

// RunOrEnqueue executes op immediately when online and returns its result;
// when offline it enqueues op instead and returns the generated queue ID.
// Callers must branch on id != "".
func (m *Manager) RunOrEnqueue(ctx context.Context, op Operation, opts AddOptions) (result any, id string, err error) {
	m.mu.Lock()
	online := m.online
	closed := m.closed
	m.mu.Unlock()

	if closed {
		return nil, "", ErrClosed
	}
	if online {
		result, err = retry.Do(ctx, op, m.policy)
		return result, "", err
	}

	id, err = m.Add(op, opts)
	return nil, id, err
}

// nextPendingLocked returns the pending item with the highest priority,
// ties broken by insertion order. Caller holds the lock.
func (m *Manager) nextPendingLocked() *Item {
	var best *Item
	for _, it := range m.items {
		if it.Status != StatusPending {
			continue
		}
		if best == nil || it.Priority > best.Priority ||
			(it.Priority == best.Priority && it.seq < best.seq) {
			best = it
		}
	}
	return best
}

func (m *Manager) processItem(ctx context.Context, item *Item) {
	m.mu.Lock()
	item.Status = StatusProcessing
	item.LastAttemptAt = time.Now()
	op := item.op
	m.mu.Unlock()
	m.persist(ctx)

	policy := m.policy
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		m.mu.Lock()
		item.RetryCount = attempt
		item.LastError = err.Error()
		m.mu.Unlock()

		metrics.QueueRetriesTotal.Inc()
		m.log.Debug("retrying queued operation",
			"id", item.ID, "attempt", attempt, "delay", delay, "error", err)
		m.persist(ctx)
	}

	result, err := retry.Do(ctx, op, policy)
	if err != nil {
		m.mu.Lock()
		item.Status = StatusFailed
		item.LastError = err.Error()
		snap := item.snapshot()
		m.mu.Unlock()

		metrics.QueueItemsTotal.WithLabelValues("failed").Inc()
		m.log.Warn("queued operation failed", "id", item.ID, "error", err)
		if m.cb.OnItemFailed != nil {
			m.cb.OnItemFailed(snap, err)
		}
		m.persist(ctx)
		return
	}

	m.mu.Lock()
	item.Status = StatusCompleted
	item.Result = result
	snap := item.snapshot()
	delete(m.items, item.ID)
	metrics.QueueDepth.Set(float64(len(m.items)))
	m.mu.Unlock()

	metrics.QueueItemsTotal.WithLabelValues("completed").Inc()
	if m.cb.OnItemCompleted != nil {
		m.cb.OnItemCompleted(snap, result)
	}
	m.persist(ctx)
}

func (m *Manager) persist(ctx context.Context) {
	if m.store == nil {
		return
	}

	// Holding persistMu across build-and-save means the last save to reach
	// the store reflects the newest state.
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	m.mu.Lock()
	items := make([]*Item, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	snaps := make([]Snapshot, len(items))
	for i, it := range items {
		snaps[i] = it.snapshot()
	}
	m.mu.Unlock()

	if err := m.store.Save(ctx, snaps); err != nil {
		m.log.Warn("failed to persist queue snapshot", "error", err)
	}
}

func setOnlineGauge(online bool) {
	if online {
		metrics.ConnectivityOnline.Set(1)
	} else {
		metrics.ConnectivityOnline.Set(0)
	}
}
