package repository

import (
	"context"

	"brokerage_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Consumer-driven interfaces. Services depend on the slice of repository
// behaviour they actually use, which keeps fakes in tests small.

// LeadReader provides read access to leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	GetBySourceIdentifier(ctx context.Context, source domain.Source, sourceID string) (Lead, error)
	List(ctx context.Context, params ListLeadsParams) ([]Lead, error)
}

// LeadWriter provides write access to leads.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Lead, error)
	UpdateScore(ctx context.Context, id uuid.UUID, score int, temperature domain.Temperature) (Lead, error)
	SupplementContact(ctx context.Context, id uuid.UUID, name, email, phone *string) (Lead, error)
	AppendNote(ctx context.Context, id uuid.UUID, note string) error
	AssignAgent(ctx context.Context, id uuid.UUID, agentID *uuid.UUID) (Lead, error)
}

// ContactLogger provides the append-only outreach log.
type ContactLogger interface {
	RecordContact(ctx context.Context, params RecordContactParams) (Lead, ContactRecord, error)
	ListContactHistory(ctx context.Context, leadID uuid.UUID) ([]ContactRecord, error)
}
