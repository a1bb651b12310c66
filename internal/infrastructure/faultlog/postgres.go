package faultlog

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	insertFaultQuery = `
		INSERT INTO transition_faults (
			fault_id, entity_id, correlation_token, phase, reason, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	selectRecentFaultsQuery = `
		SELECT fault_id, entity_id, correlation_token, phase, reason, occurred_at
		FROM transition_faults
		ORDER BY occurred_at DESC
		LIMIT $1
	`
)

type DBFaultLog struct {
	db *sql.DB
}

func NewDBFaultLog(db *sql.DB) *DBFaultLog {
	return &DBFaultLog{db: db}
}

func (fl *DBFaultLog) Record(ctx context.Context, fault Fault) error {
	_, err := fl.db.ExecContext(ctx, insertFaultQuery,
		fault.FaultID,
		fault.EntityID,
		fault.CorrelationToken,
		fault.Phase,
		fault.Reason,
		fault.OccurredAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record fault: %w", err)
	}

	return nil
}

func (fl *DBFaultLog) ListRecent(ctx context.Context, limit int) ([]Fault, error) {
	rows, err := fl.db.QueryContext(ctx, selectRecentFaultsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query faults: %w", err)
	}
	defer rows.Close()

	var faults []Fault
	for rows.Next() {
		var f Fault
		var occurredAt sql.NullTime

		if err := rows.Scan(&f.FaultID, &f.EntityID, &f.CorrelationToken, &f.Phase, &f.Reason, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan fault: %w", err)
		}

		f.OccurredAt = occurredAt.Time
		faults = append(faults, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faults: %w", err)
	}

	return faults, nil
}
