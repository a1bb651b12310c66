package faultlog

import (
	"context"
	"sync"
	"time"
)

// Fault records a terminal transition failure for telemetry. Failure
// reasons are never silently swallowed; every Failed outcome lands here.
type Fault struct {
	FaultID          string
	EntityID         string
	CorrelationToken string
	Phase            string
	Reason           string
	OccurredAt       time.Time
}

type Recorder interface {
	Record(ctx context.Context, fault Fault) error
}

// MemoryFaultLog is a bounded in-memory recorder used when no database is
// configured and in tests.
type MemoryFaultLog struct {
	mu        sync.RWMutex
	faults    []Fault
	maxFaults int
}

func NewMemoryFaultLog() *MemoryFaultLog {
	return &MemoryFaultLog{
		maxFaults: 1000,
	}
}

func (ml *MemoryFaultLog) Record(ctx context.Context, fault Fault) error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if len(ml.faults) >= ml.maxFaults {
		ml.faults = ml.faults[100:]
	}
	ml.faults = append(ml.faults, fault)
	return nil
}

func (ml *MemoryFaultLog) Faults() []Fault {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	faultsCopy := make([]Fault, len(ml.faults))
	copy(faultsCopy, ml.faults)
	return faultsCopy
}
