// Package netmon answers "are we online" cheaply and keeps the answer fresh.
//
// A short-timeout HEAD probe against a well-known endpoint runs on a fixed
// interval; any error or timeout counts as offline. State transitions are
// published to subscribers; the initial state before the first probe is
// unknown and reads as offline.
package netmon

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/clinicdesk/clinicsync/internal/config"
)

// Status is the current connectivity state.
type Status int

const (
	StatusUnknown Status = iota
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Event is published on every state transition.
type Event struct {
	Online bool
	At     time.Time
}

// Monitor probes internet reachability on a fixed interval. It only publishes
// state; it never blocks other components.
type Monitor struct {
	probeURL string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger

	mu     sync.Mutex
	status Status
	subs   []chan Event
}

// New creates a Monitor. Call Start to begin periodic checks; CheckNow works
// before and independently of Start.
func New(cfg config.NetworkConfig, logger *slog.Logger) *Monitor {
	return &Monitor{
		probeURL: cfg.ProbeURL,
		interval: cfg.CheckInterval,
		client:   &http.Client{Timeout: cfg.ProbeTimeout},
		logger:   logger,
		status:   StatusUnknown,
	}
}

// Start runs the periodic probe loop until ctx is cancelled. An immediate
// check fires before the first tick.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		m.CheckNow(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CheckNow(ctx)
			}
		}
	}()
}

// CheckNow issues an on-demand probe without waiting for the next scheduled
// tick, updates the shared state, and returns the fresh result.
func (m *Monitor) CheckNow(ctx context.Context) bool {
	online := m.probe(ctx)
	m.publish(online)
	return online
}

// IsOnline returns the last observed state. Unknown reads as offline so that
// callers fail safe before the first probe completes.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == StatusOnline
}

// Status returns the raw tri-state value, including unknown.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Subscribe returns a channel receiving one Event per state transition.
// Slow subscribers drop events rather than block the monitor.
func (m *Monitor) Subscribe() <-chan Event {
	ch := make(chan Event, 8)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

func (m *Monitor) publish(online bool) {
	next := StatusOffline
	if online {
		next = StatusOnline
	}

	m.mu.Lock()
	changed := m.status != next
	m.status = next
	subs := m.subs
	m.mu.Unlock()

	if !changed {
		return
	}

	m.logger.Info("connectivity changed", "online", online)
	ev := Event{Online: online, At: time.Now().UTC()}
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
