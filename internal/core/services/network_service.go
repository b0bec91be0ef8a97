package services

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"trustbuild-shell/internal/core/domain"
)

// ProbeFunc determines the current network state
type ProbeFunc func(ctx context.Context) domain.NetworkState

// NetworkSubscription is a live feed of network states. Only the latest
// state matters: the channel holds at most one value and a stale value is
// replaced rather than queued.
type NetworkSubscription struct {
	C <-chan domain.NetworkState
	c chan domain.NetworkState
}

// NetworkMonitor exposes a continuously updated connectivity signal.
// Subscribers receive the current state on subscription and every change
// afterwards until they unsubscribe.
type NetworkMonitor struct {
	probe    ProbeFunc
	interval time.Duration

	mu       sync.Mutex
	state    domain.NetworkState
	subs     map[*NetworkSubscription]struct{}
	stopChan chan struct{}
	started  bool
}

// NewNetworkMonitor creates a monitor driven by the given probe
func NewNetworkMonitor(probe ProbeFunc, interval time.Duration) *NetworkMonitor {
	return &NetworkMonitor{
		probe:    probe,
		interval: interval,
		state:    domain.NetworkState{IsConnected: true, IsInternetReachable: true},
		subs:     make(map[*NetworkSubscription]struct{}),
	}
}

// DefaultProbe checks for an up non-loopback interface and backend
// reachability via the health endpoint
func DefaultProbe(healthURL string) ProbeFunc {
	client := &http.Client{Timeout: 5 * time.Second}

	return func(ctx context.Context) domain.NetworkState {
		state := domain.NetworkState{IsConnected: hasActiveInterface()}
		if !state.IsConnected {
			return state
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return state
		}
		resp, err := client.Do(req)
		if err != nil {
			return state
		}
		defer resp.Body.Close()

		state.IsInternetReachable = resp.StatusCode >= 200 && resp.StatusCode <= 299
		return state
	}
}

// hasActiveInterface reports whether any up, non-loopback interface has an
// address assigned
func hasActiveInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}

// Start probes once immediately, then watches for state changes
func (m *NetworkMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.stopChan = make(chan struct{})
	stop := m.stopChan
	m.mu.Unlock()

	m.update(m.probe(ctx))
	go m.watch(ctx, stop)

	log.Println("🚀 Network monitor started")
}

// Stop halts the watcher
func (m *NetworkMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}
	m.started = false
	close(m.stopChan)
	log.Println("🛑 Network monitor stopped")
}

// watch re-probes on an interval and publishes only actual changes. The stop
// channel belongs to one Start/Stop cycle, so a restarted monitor never
// observes a close from a previous cycle.
func (m *NetworkMonitor) watch(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.update(m.probe(ctx))
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Snapshot returns the latest known state
func (m *NetworkMonitor) Snapshot() domain.NetworkState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe starts observing network changes. The current state is
// delivered immediately.
func (m *NetworkMonitor) Subscribe() *NetworkSubscription {
	c := make(chan domain.NetworkState, 1)
	sub := &NetworkSubscription{C: c, c: c}

	m.mu.Lock()
	m.subs[sub] = struct{}{}
	sub.c <- m.state
	m.mu.Unlock()

	return sub
}

// Unsubscribe stops observing and frees the subscription
func (m *NetworkMonitor) Unsubscribe(sub *NetworkSubscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[sub]; !ok {
		return
	}
	delete(m.subs, sub)
	close(sub.c)
}

// update records a new state and notifies subscribers on change
func (m *NetworkMonitor) update(state domain.NetworkState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state == m.state {
		return
	}
	m.state = state

	if !state.IsOnline() {
		log.Println("⚠️ Network offline")
	}

	for sub := range m.subs {
		// Replace a stale undelivered state; never block on a slow consumer
		select {
		case <-sub.c:
		default:
		}
		sub.c <- state
	}
}
