package repository

import (
	"context"

	"brokerage_backend/internal/workflows/domain"

	"github.com/google/uuid"
)

// WorkflowReader provides read access to property workflows.
type WorkflowReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Workflow, error)
	List(ctx context.Context, workflowType *domain.Type, stage *domain.Stage, limit, offset int) ([]Workflow, error)
	StageHistory(ctx context.Context, workflowID uuid.UUID) ([]StageEntry, error)
}

// WorkflowWriter provides write access to property workflows.
type WorkflowWriter interface {
	Create(ctx context.Context, params CreateWorkflowParams) (Workflow, error)
	SetStage(ctx context.Context, id uuid.UUID, stage domain.Stage, extra StageUpdateParams) (Workflow, error)
}
