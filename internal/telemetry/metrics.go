package telemetry

import "sync"

// AtomicMetrics is a minimal in-memory Metrics implementation: a
// mutex-guarded map of named counters/gauges. It buys cheap internal
// visibility into queue occupancy and drop counts without pulling in an
// external metrics backend.
type AtomicMetrics struct {
	mu   sync.Mutex
	vals map[string]uint64
}

// NewAtomicMetrics constructs an empty metrics store.
func NewAtomicMetrics() *AtomicMetrics {
	return &AtomicMetrics{vals: make(map[string]uint64)}
}

func (m *AtomicMetrics) Add(key string, delta uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] += delta
}

func (m *AtomicMetrics) Store(key string, value uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
}

// Snapshot returns a copy of every recorded counter, for diagnostics.
func (m *AtomicMetrics) Snapshot() map[string]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]uint64, len(m.vals))
	for k, v := range m.vals {
		out[k] = v
	}
	return out
}

var _ Metrics = (*AtomicMetrics)(nil)
