package repository

import (
	"context"
	"errors"
	"time"

	"brokerage_backend/internal/workflows/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("workflow not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Workflow is one property moving through a sale or letting. Client
// contact fields are denormalized from the party record at creation time
// so stage automations can address the vendor or landlord without a join.
type Workflow struct {
	ID               uuid.UUID
	PropertyID       uuid.UUID
	Type             domain.Type
	Stage            domain.Stage
	PropertyAddress  string
	ClientName       string
	ClientEmail      *string
	ClientPhone      *string
	VendorID         *uuid.UUID
	BuyerID          *uuid.UUID
	LandlordID       *uuid.UUID
	TenantID         *uuid.UUID
	AgreedPriceCents *int64
	FeeCents         *int64
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateWorkflowParams struct {
	PropertyID      uuid.UUID
	Type            domain.Type
	PropertyAddress string
	ClientName      string
	ClientEmail     *string
	ClientPhone     *string
	VendorID        *uuid.UUID
	LandlordID      *uuid.UUID
}

// StageUpdateParams carries the extra fields a stage-set call may attach.
// Nil pointers leave the stored value untouched.
type StageUpdateParams struct {
	AgreedPriceCents *int64
	FeeCents         *int64
	BuyerID          *uuid.UUID
	TenantID         *uuid.UUID
}

// StageEntry is one row of a workflow's stage history.
type StageEntry struct {
	Stage     domain.Stage
	EnteredAt time.Time
}

const workflowColumns = `id, property_id, workflow_type, stage, property_address,
	client_name, client_email, client_phone, vendor_id, buyer_id, landlord_id,
	tenant_id, agreed_price_cents, fee_cents, completed_at, created_at, updated_at`

func scanWorkflow(row pgx.Row) (Workflow, error) {
	var w Workflow
	err := row.Scan(
		&w.ID, &w.PropertyID, &w.Type, &w.Stage, &w.PropertyAddress,
		&w.ClientName, &w.ClientEmail, &w.ClientPhone, &w.VendorID, &w.BuyerID,
		&w.LandlordID, &w.TenantID, &w.AgreedPriceCents, &w.FeeCents,
		&w.CompletedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Workflow{}, ErrNotFound
	}
	return w, err
}

// Create inserts a workflow at the valuation stage and records the first
// stage-history entry in the same transaction.
func (r *Repository) Create(ctx context.Context, params CreateWorkflowParams) (Workflow, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Workflow{}, err
	}
	defer tx.Rollback(ctx)

	workflow, err := scanWorkflow(tx.QueryRow(ctx, `
		INSERT INTO property_workflows (
			property_id, workflow_type, stage, property_address,
			client_name, client_email, client_phone, vendor_id, landlord_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+workflowColumns,
		params.PropertyID, params.Type, domain.StageValuation, params.PropertyAddress,
		params.ClientName, params.ClientEmail, params.ClientPhone,
		params.VendorID, params.LandlordID,
	))
	if err != nil {
		return Workflow{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workflow_stage_history (workflow_id, stage) VALUES ($1, $2)`,
		workflow.ID, domain.StageValuation,
	)
	if err != nil {
		return Workflow{}, err
	}

	return workflow, tx.Commit(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Workflow, error) {
	return scanWorkflow(r.pool.QueryRow(ctx, `
		SELECT `+workflowColumns+` FROM property_workflows WHERE id = $1`, id))
}

// List returns workflows filtered by optional type and stage, newest first.
func (r *Repository) List(ctx context.Context, workflowType *domain.Type, stage *domain.Stage, limit, offset int) ([]Workflow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+workflowColumns+`
		FROM property_workflows
		WHERE ($1::text IS NULL OR workflow_type = $1)
		  AND ($2::text IS NULL OR stage = $2)
		ORDER BY updated_at DESC
		LIMIT $3 OFFSET $4`,
		workflowType, stage, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workflows []Workflow
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, w)
	}
	return workflows, rows.Err()
}

// SetStage writes the target stage unconditionally (last write wins),
// applies any extra fields, appends the stage-history row, and stamps
// completed_at when the stage is terminal. The whole write is one
// transaction; automation dispatch happens after it commits.
func (r *Repository) SetStage(ctx context.Context, id uuid.UUID, stage domain.Stage, extra StageUpdateParams) (Workflow, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Workflow{}, err
	}
	defer tx.Rollback(ctx)

	var completedAt *time.Time
	if stage.Terminal() {
		now := time.Now().UTC()
		completedAt = &now
	}

	workflow, err := scanWorkflow(tx.QueryRow(ctx, `
		UPDATE property_workflows SET
			stage = $2,
			agreed_price_cents = COALESCE($3, agreed_price_cents),
			fee_cents = COALESCE($4, fee_cents),
			buyer_id = COALESCE($5, buyer_id),
			tenant_id = COALESCE($6, tenant_id),
			completed_at = COALESCE($7, completed_at),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+workflowColumns,
		id, stage, extra.AgreedPriceCents, extra.FeeCents,
		extra.BuyerID, extra.TenantID, completedAt,
	))
	if err != nil {
		return Workflow{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO workflow_stage_history (workflow_id, stage) VALUES ($1, $2)`,
		id, stage,
	)
	if err != nil {
		return Workflow{}, err
	}

	return workflow, tx.Commit(ctx)
}

// StageHistory returns the stage entries for a workflow in entry order.
func (r *Repository) StageHistory(ctx context.Context, workflowID uuid.UUID) ([]StageEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stage, entered_at
		FROM workflow_stage_history
		WHERE workflow_id = $1
		ORDER BY entered_at ASC`,
		workflowID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []StageEntry
	for rows.Next() {
		var e StageEntry
		if err := rows.Scan(&e.Stage, &e.EnteredAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
