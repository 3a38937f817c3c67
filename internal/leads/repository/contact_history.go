package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ContactRecord is one row of the append-only outreach log. Rows are never
// updated or deleted after creation.
type ContactRecord struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Channel   string
	Direction string
	Content   string
	Outcome   string
	CreatedAt time.Time
}

type RecordContactParams struct {
	LeadID    uuid.UUID
	Channel   string
	Direction string
	Content   string
	Outcome   string
}

// RecordContact appends a contact record and bumps the lead's attempt
// counter by exactly one, forcing the status to contacted. Both writes
// happen in a single transaction.
func (r *Repository) RecordContact(ctx context.Context, params RecordContactParams) (Lead, ContactRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, ContactRecord{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var record ContactRecord
	err = tx.QueryRow(ctx, `
		INSERT INTO contact_history (lead_id, channel, direction, content, outcome)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, channel, direction, content, outcome, created_at
	`, params.LeadID, params.Channel, params.Direction, params.Content, params.Outcome).Scan(
		&record.ID, &record.LeadID, &record.Channel, &record.Direction,
		&record.Content, &record.Outcome, &record.CreatedAt,
	)
	if err != nil {
		return Lead{}, ContactRecord{}, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE leads
		SET contact_attempts = contact_attempts + 1, status = 'contacted', updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, params.LeadID)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ContactRecord{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, ContactRecord{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, ContactRecord{}, err
	}

	return lead, record, nil
}

func (r *Repository) ListContactHistory(ctx context.Context, leadID uuid.UUID) ([]ContactRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, channel, direction, content, outcome, created_at
		FROM contact_history
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]ContactRecord, 0)
	for rows.Next() {
		var record ContactRecord
		if err := rows.Scan(
			&record.ID, &record.LeadID, &record.Channel, &record.Direction,
			&record.Content, &record.Outcome, &record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
