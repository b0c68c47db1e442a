// Package connectivity tracks whether the remote service is reachable and
// publishes debounced online/offline transition events.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/adriancondrea/Bikes-Shop/internal/logging"
)

// probeTimeout bounds a single reachability probe.
const probeTimeout = 3 * time.Second

// Prober checks server reachability. Satisfied by remote.Client.
type Prober interface {
	Ping(ctx context.Context) error
}

// Monitor polls the server on an interval and tracks the current online
// state. A transition is published only after `debounce` consecutive probes
// agree on a state different from the published one, so a flapping
// connection yields at most one event per stable period.
type Monitor struct {
	prober   Prober
	interval time.Duration
	debounce int
	log      logging.Logger

	mu        sync.Mutex
	online    bool
	candidate bool
	streak    int
	subs      map[int]func(online bool)
	nextSubID int
}

// NewMonitor builds a Monitor. debounce < 1 is treated as 1 (immediate
// transitions).
func NewMonitor(prober Prober, interval time.Duration, debounce int, log logging.Logger) *Monitor {
	if debounce < 1 {
		debounce = 1
	}
	return &Monitor{
		prober:   prober,
		interval: interval,
		debounce: debounce,
		log:      log,
		subs:     make(map[int]func(bool)),
	}
}

// Current returns the published connectivity state.
func (m *Monitor) Current() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers fn to be called on every published transition and
// returns an unsubscribe function. After unsubscribe returns, fn is not
// called again.
func (m *Monitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Run probes until ctx is cancelled. The first probe fires immediately so
// startup does not wait a full interval for the initial state.
func (m *Monitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := m.prober.Ping(probeCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}
	m.observe(ctx, err == nil)
}

// observe folds one probe result into the debounce state and publishes a
// transition once the result has been stable for `debounce` probes.
func (m *Monitor) observe(ctx context.Context, online bool) {
	m.mu.Lock()

	if online == m.online {
		m.streak = 0
		m.mu.Unlock()
		return
	}
	if online == m.candidate {
		m.streak++
	} else {
		m.candidate = online
		m.streak = 1
	}
	if m.streak < m.debounce {
		m.mu.Unlock()
		return
	}

	m.online = online
	m.streak = 0
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	m.log.Info(ctx, "connectivity changed", "online", online)
	for _, fn := range subs {
		fn(online)
	}
}
