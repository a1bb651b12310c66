package entity

import "time"

// Kind discriminates what a snapshot describes.
type Kind string

const (
	KindSubscription    Kind = "subscription"
	KindAccountLink     Kind = "account-link"
	KindAccountCreation Kind = "account-creation"
)

// Status is the lifecycle status reported by the backend.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Snapshot is an authoritative view of an entity as reported by the backend,
// either through payment verification or through the push channel. Snapshots
// are values; the reconciler decides which one wins.
type Snapshot struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	Kind            Kind      `json:"kind"`
	Status          Status    `json:"status"`
	Version         int64     `json:"version"`
	UpdatedAt       time.Time `json:"updated_at"`
	PlanID          string    `json:"plan_id,omitempty"`
	PriceCents      int64     `json:"price_cents,omitempty"`
	LinkedAccountID string    `json:"linked_account_id,omitempty"`
}

// NewerThan reports whether s supersedes other. Versions are strictly
// monotonic per entity; the timestamp only breaks ties when the backend
// reports the same version from two sources.
func (s Snapshot) NewerThan(other Snapshot) bool {
	if s.Version != other.Version {
		return s.Version > other.Version
	}
	return s.UpdatedAt.After(other.UpdatedAt)
}
