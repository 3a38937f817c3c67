// Package appointments books the diary entries workflow automations
// schedule: valuations, photography, viewings.
package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("appointment not found")

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Appointment struct {
	ID          uuid.UUID
	WorkflowID  uuid.UUID
	Type        string
	ScheduledAt time.Time
	Status      Status
	CreatedAt   time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, workflow_id, appointment_type, scheduled_at, status, created_at`

func (r *Repository) Create(ctx context.Context, workflowID uuid.UUID, appointmentType string, at time.Time) (Appointment, error) {
	var a Appointment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO workflow_appointments (workflow_id, appointment_type, scheduled_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+appointmentColumns,
		workflowID, appointmentType, at, StatusScheduled,
	).Scan(&a.ID, &a.WorkflowID, &a.Type, &a.ScheduledAt, &a.Status, &a.CreatedAt)
	return a, err
}

func (r *Repository) ListForWorkflow(ctx context.Context, workflowID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM workflow_appointments
		WHERE workflow_id = $1
		ORDER BY scheduled_at ASC`,
		workflowID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.WorkflowID, &a.Type, &a.ScheduledAt, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (Appointment, error) {
	var a Appointment
	err := r.pool.QueryRow(ctx, `
		UPDATE workflow_appointments SET status = $2 WHERE id = $1
		RETURNING `+appointmentColumns,
		id, status,
	).Scan(&a.ID, &a.WorkflowID, &a.Type, &a.ScheduledAt, &a.Status, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	return a, err
}
