package metrics

import "sync"

// Counter names incremented by the transition orchestrator and reconciler.
const (
	CounterTransitionsActivated   = "transitions_activated"
	CounterTransitionsFailed      = "transitions_failed"
	CounterTransitionsCancelled   = "transitions_cancelled"
	CounterGatewayUnavailable     = "transitions_gateway_unavailable"
	CounterAlreadyInFlight        = "transitions_already_in_flight"
	CounterSnapshotsApplied       = "snapshots_applied"
	CounterSnapshotsIgnoredStale  = "snapshots_ignored_stale"
	CounterPushEventsDeadLettered = "push_events_dead_lettered"
)

// Collector defines the interface for metrics collection
type Collector interface {
	IncrementCounter(name string)
	GetCounter(name string) int64
}

type InMemoryCollector struct {
	counters map[string]int64
	mu       sync.RWMutex
}

func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		counters: make(map[string]int64),
	}
}

func (c *InMemoryCollector) IncrementCounter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

func (c *InMemoryCollector) GetCounter(name string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[name]
}
