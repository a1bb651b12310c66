package entitystore

import (
	"context"

	"edupay/internal/domain/entity"
)

// SnapshotStore persists the latest applied snapshot per entity so a
// restarted session sees last-known state before the first push arrives.
// It is a write-behind cache, never the read path for current entities.
type SnapshotStore interface {
	// Save upserts a snapshot, keeping the stored row only if newer
	Save(ctx context.Context, snapshot entity.Snapshot) error
	// LoadAccount loads all stored snapshots for an account
	LoadAccount(ctx context.Context, accountID string) ([]entity.Snapshot, error)
}
