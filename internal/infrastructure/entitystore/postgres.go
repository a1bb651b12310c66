package entitystore

import (
	"context"
	"database/sql"
	"fmt"

	"edupay/internal/domain/entity"
)

const (
	upsertSnapshotQuery = `
		INSERT INTO entity_snapshots (
			entity_id, account_id, kind, status, version, updated_at,
			plan_id, price_cents, linked_account_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (entity_id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			kind = EXCLUDED.kind,
			status = EXCLUDED.status,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at,
			plan_id = EXCLUDED.plan_id,
			price_cents = EXCLUDED.price_cents,
			linked_account_id = EXCLUDED.linked_account_id
		WHERE EXCLUDED.version > entity_snapshots.version
	`

	selectAccountSnapshotsQuery = `
		SELECT entity_id, account_id, kind, status, version, updated_at,
		       plan_id, price_cents, linked_account_id
		FROM entity_snapshots
		WHERE account_id = $1
		ORDER BY entity_id ASC
	`
)

type PostgresSnapshotStore struct {
	db *sql.DB
}

func NewPostgresSnapshotStore(connString string) (*PostgresSnapshotStore, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSnapshotStore{db: db}, nil
}

func (ps *PostgresSnapshotStore) Save(ctx context.Context, snapshot entity.Snapshot) error {
	_, err := ps.db.ExecContext(ctx, upsertSnapshotQuery,
		snapshot.ID,
		snapshot.AccountID,
		string(snapshot.Kind),
		string(snapshot.Status),
		snapshot.Version,
		snapshot.UpdatedAt,
		snapshot.PlanID,
		snapshot.PriceCents,
		snapshot.LinkedAccountID,
	)

	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (ps *PostgresSnapshotStore) LoadAccount(ctx context.Context, accountID string) ([]entity.Snapshot, error) {
	rows, err := ps.db.QueryContext(ctx, selectAccountSnapshotsQuery, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []entity.Snapshot
	for rows.Next() {
		var snap entity.Snapshot
		var kind, status string
		var updatedAt sql.NullTime

		err := rows.Scan(&snap.ID, &snap.AccountID, &kind, &status, &snap.Version, &updatedAt, &snap.PlanID, &snap.PriceCents, &snap.LinkedAccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snap.Kind = entity.Kind(kind)
		snap.Status = entity.Status(status)
		snap.UpdatedAt = updatedAt.Time

		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

func (ps *PostgresSnapshotStore) Close() error {
	return ps.db.Close()
}
