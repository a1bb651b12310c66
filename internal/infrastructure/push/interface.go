package push

import (
	"context"
	"time"

	"edupay/internal/domain/entity"
)

// EntityChanged is the payload of an entity-changed push event. Ordering is
// only meaningful per entity identifier; the version carries the guard.
type EntityChanged struct {
	EventID         string        `json:"event_id"`
	AccountID       string        `json:"account_id"`
	EntityID        string        `json:"entity_id"`
	Kind            entity.Kind   `json:"kind"`
	Status          entity.Status `json:"status"`
	Version         int64         `json:"version"`
	UpdatedAt       time.Time     `json:"updated_at"`
	PlanID          string        `json:"plan_id,omitempty"`
	PriceCents      int64         `json:"price_cents,omitempty"`
	LinkedAccountID string        `json:"linked_account_id,omitempty"`
}

// Snapshot converts the event payload into an authoritative entity snapshot
func (e EntityChanged) Snapshot() entity.Snapshot {
	return entity.Snapshot{
		ID:              e.EntityID,
		AccountID:       e.AccountID,
		Kind:            e.Kind,
		Status:          e.Status,
		Version:         e.Version,
		UpdatedAt:       e.UpdatedAt,
		PlanID:          e.PlanID,
		PriceCents:      e.PriceCents,
		LinkedAccountID: e.LinkedAccountID,
	}
}

// RawHandler consumes one raw message payload from the stream.
type RawHandler func(ctx context.Context, payload []byte) error

// Stream is the server-push channel the listener subscribes to.
type Stream interface {
	// Subscribe consumes messages with a consumer group until ctx is done
	Subscribe(ctx context.Context, groupID string, handler RawHandler) error
	// Close closes the stream
	Close() error
}
