package reconcile

import (
	"context"
	"sync"

	"edupay/internal/common/logger"
	"edupay/internal/common/metrics"
	"edupay/internal/domain/entity"
	"edupay/internal/infrastructure/entitystore"
)

// ApplyResult reports whether a snapshot was taken or rejected as stale.
type ApplyResult string

const (
	Applied      ApplyResult = "applied"
	IgnoredStale ApplyResult = "ignored-stale"
)

// Reconciler owns the locally held entity map. Every snapshot, whether it
// came from payment verification or from the push channel, is applied here
// and nowhere else; the version guard alone decides which update wins.
type Reconciler struct {
	mu       sync.RWMutex
	entities map[string]entity.Snapshot

	store   entitystore.SnapshotStore
	logger  logger.Logger
	metrics metrics.Collector
}

// NewReconciler creates a reconciler. store may be nil when warm-start
// persistence is not configured.
func NewReconciler(store entitystore.SnapshotStore, l logger.Logger, collector metrics.Collector) *Reconciler {
	return &Reconciler{
		entities: make(map[string]entity.Snapshot),
		store:    store,
		logger:   l,
		metrics:  collector,
	}
}

// WarmStart seeds the map from persisted snapshots. Called once before the
// push listener starts; later arrivals go through Apply as usual.
func (r *Reconciler) WarmStart(ctx context.Context, accountID string) error {
	if r.store == nil {
		return nil
	}

	snapshots, err := r.store.LoadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	for _, snap := range snapshots {
		r.Apply(ctx, snap)
	}

	r.logger.Info("Warm start complete", logger.Field{Key: "account_id", Value: accountID}, logger.Field{Key: "entities", Value: len(snapshots)})
	return nil
}

// Apply merges an authoritative snapshot into the entity map. A snapshot
// that is not strictly newer than the held one is a no-op, which makes
// duplicate and out-of-order delivery safe.
func (r *Reconciler) Apply(ctx context.Context, snapshot entity.Snapshot) ApplyResult {
	r.mu.Lock()
	held, exists := r.entities[snapshot.ID]
	if exists && !snapshot.NewerThan(held) {
		r.mu.Unlock()
		r.metrics.IncrementCounter(metrics.CounterSnapshotsIgnoredStale)
		return IgnoredStale
	}
	r.entities[snapshot.ID] = snapshot
	r.mu.Unlock()

	r.metrics.IncrementCounter(metrics.CounterSnapshotsApplied)

	if r.store != nil {
		if err := r.store.Save(ctx, snapshot); err != nil {
			// Persistence is write-behind; the in-memory map stays authoritative
			r.logger.Warn("Failed to persist snapshot",
				logger.Field{Key: "entity_id", Value: snapshot.ID},
				logger.Field{Key: "error", Value: err})
		}
	}

	return Applied
}

// Current returns the held snapshot for an entity, if any.
func (r *Reconciler) Current(entityID string) (entity.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.entities[entityID]
	return snap, ok
}

// All returns a copy of every held snapshot.
func (r *Reconciler) All() []entity.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := make([]entity.Snapshot, 0, len(r.entities))
	for _, snap := range r.entities {
		snapshots = append(snapshots, snap)
	}
	return snapshots
}
