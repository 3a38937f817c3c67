package repository

import (
	"context"
	"errors"
	"time"

	"brokerage_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID               uuid.UUID
	Source           domain.Source
	SourceIdentifier string
	Name             string
	Email            *string
	Phone            *string
	Score            int
	Temperature      domain.Temperature
	Status           domain.Status
	ContactAttempts  int
	Notes            string
	AssignedAgentID  *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateLeadParams struct {
	Source           domain.Source
	SourceIdentifier string
	Name             string
	Email            *string
	Phone            *string
	Score            int
	Temperature      domain.Temperature
	Notes            string
	AssignedAgentID  *uuid.UUID
}

const leadColumns = `id, source, source_identifier, name, email, phone, score, temperature,
	status, contact_attempts, notes, assigned_agent_id, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Source, &lead.SourceIdentifier, &lead.Name, &lead.Email,
		&lead.Phone, &lead.Score, &lead.Temperature, &lead.Status,
		&lead.ContactAttempts, &lead.Notes, &lead.AssignedAgentID,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

// Create inserts a lead. The unique index on (source, source_identifier)
// makes dedup atomic: when the pair already exists the insert is a no-op and
// the existing row is returned with created=false.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, bool, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (source, source_identifier, name, email, phone, score, temperature, notes, assigned_agent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (source, source_identifier) DO NOTHING
		RETURNING `+leadColumns,
		params.Source, params.SourceIdentifier, params.Name, params.Email, params.Phone,
		params.Score, params.Temperature, params.Notes, params.AssignedAgentID,
	)

	lead, err := scanLead(row)
	if err == nil {
		return lead, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, false, err
	}

	existing, err := r.GetBySourceIdentifier(ctx, params.Source, params.SourceIdentifier)
	if err != nil {
		return Lead{}, false, err
	}
	return existing, false, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) GetBySourceIdentifier(ctx context.Context, source domain.Source, sourceID string) (Lead, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE source = $1 AND source_identifier = $2`,
		source, sourceID,
	)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ListLeadsParams struct {
	Status      *domain.Status
	Source      *domain.Source
	Temperature *domain.Temperature
	Limit       int
	Offset      int
}

func (r *Repository) List(ctx context.Context, params ListLeadsParams) ([]Lead, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR source = $2)
		  AND ($3::text IS NULL OR temperature = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, params.Status, params.Source, params.Temperature, limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, status)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, score int, temperature domain.Temperature) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET score = $2, temperature = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, score, temperature)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// SupplementContact fills in contact fields that are currently empty.
// Populated fields are never overwritten; sources only ever add information.
func (r *Repository) SupplementContact(ctx context.Context, id uuid.UUID, name, email, phone *string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name  = CASE WHEN name = '' AND $2::text IS NOT NULL THEN $2 ELSE name END,
			email = COALESCE(email, $3),
			phone = COALESCE(phone, $4),
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, name, email, phone)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) AppendNote(ctx context.Context, id uuid.UUID, note string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET notes = CASE WHEN notes = '' THEN $2 ELSE notes || E'\n' || $2 END,
		    updated_at = now()
		WHERE id = $1
	`, id, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignAgent sets or clears the agent responsible for following up the lead.
func (r *Repository) AssignAgent(ctx context.Context, id uuid.UUID, agentID *uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET assigned_agent_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, agentID)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}
