// Package connectivity tracks whether the client can reach the network and
// notifies subscribers on online/offline transitions.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Config holds monitor settings.
type Config struct {
	// ProbeURL is the endpoint polled to detect connectivity. Any HTTP
	// response counts as online; only transport failures count as offline.
	ProbeURL string `yaml:"probe_url"`

	// Interval between probes.
	Interval time.Duration `yaml:"interval"`

	// Timeout for a single probe.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig polls a lightweight no-content endpoint.
var DefaultConfig = Config{
	ProbeURL: "https://connectivitycheck.gstatic.com/generate_204",
	Interval: 15 * time.Second,
	Timeout:  5 * time.Second,
}

// Monitor polls a probe URL and fires subscriber callbacks on transitions.
type Monitor struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger

	mu     sync.Mutex
	online bool
	subs   []func(online bool)
}

// NewMonitor creates a Monitor. Zero-value config fields fall back to
// DefaultConfig. The monitor starts optimistic (online) until the first
// probe completes.
func NewMonitor(cfg Config, log *slog.Logger) *Monitor {
	if cfg.ProbeURL == "" {
		cfg.ProbeURL = DefaultConfig.ProbeURL
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig.Timeout
	}
	if log == nil {
		log = slog.Default()
	}

	return &Monitor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
		online: true,
	}
}

// Subscribe registers a callback invoked on every transition. Callbacks run
// on the monitor goroutine and should return quickly.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Probe performs a single connectivity check.
func (m *Monitor) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.cfg.ProbeURL, nil)
	if err != nil {
		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()

	// Any response means the network path works, even an error status.
	return true
}

// Start runs the probe loop until ctx is cancelled. The first probe runs
// immediately so dependents see a real state quickly.
func (m *Monitor) Start(ctx context.Context) {
	m.check(ctx)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	online := m.Probe(ctx)

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	subs := make([]func(bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if !changed {
		return
	}

	if online {
		m.log.Info("network connectivity restored")
	} else {
		m.log.Warn("network connectivity lost", "probe", m.cfg.ProbeURL)
	}
	for _, fn := range subs {
		fn(online)
	}
}
