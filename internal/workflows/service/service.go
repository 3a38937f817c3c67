// Package service implements property workflow progression: stage writes,
// stage history, and the automation dispatch that follows each committed
// stage change.
package service

import (
	"context"
	"errors"
	"fmt"

	"brokerage_backend/internal/automation"
	"brokerage_backend/internal/events"
	"brokerage_backend/internal/workflows/domain"
	"brokerage_backend/internal/workflows/repository"
	"brokerage_backend/internal/workflows/transport"
	"brokerage_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository is the data access surface the service needs.
type Repository interface {
	repository.WorkflowReader
	repository.WorkflowWriter
}

// AutomationDispatcher executes the automation list attached to a stage.
// Implemented by the automation.Dispatcher; it logs per-action failures and
// never returns them.
type AutomationDispatcher interface {
	Dispatch(ctx context.Context, stage string, actions []automation.Action, dctx automation.DispatchContext)
}

// Service handles workflow lifecycle operations.
type Service struct {
	repo       Repository
	bus        events.Bus
	dispatcher AutomationDispatcher
}

// New creates a workflow service. dispatcher may be nil in processes that
// have no outbound channels wired (stage writes still happen, automations
// are skipped).
func New(repo Repository, bus events.Bus, dispatcher AutomationDispatcher) *Service {
	return &Service{repo: repo, bus: bus, dispatcher: dispatcher}
}

// Create opens a workflow for a property at the valuation stage and runs
// the valuation-stage automations.
func (s *Service) Create(ctx context.Context, req transport.CreateWorkflowRequest) (transport.WorkflowResponse, error) {
	workflowType := domain.Type(req.Type)
	if !domain.IsKnownType(workflowType) {
		return transport.WorkflowResponse{}, apperr.New(apperr.KindValidation, fmt.Sprintf("unknown workflow type %q", req.Type))
	}

	params := repository.CreateWorkflowParams{
		PropertyID:      req.PropertyID,
		Type:            workflowType,
		PropertyAddress: req.PropertyAddress,
		ClientName:      req.ClientName,
		VendorID:        req.VendorID,
		LandlordID:      req.LandlordID,
	}
	if req.ClientEmail != "" {
		params.ClientEmail = &req.ClientEmail
	}
	if req.ClientPhone != "" {
		params.ClientPhone = &req.ClientPhone
	}

	workflow, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.WorkflowResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create workflow", err)
	}

	s.dispatchStageAutomations(ctx, workflow)

	return transport.ToWorkflowResponse(workflow), nil
}

// Progress sets the workflow's stage. The target stage must be one of the
// enumerated stages for the workflow's type; beyond membership there is no
// reachability check, so repeated or backward transitions are accepted and
// the last write wins. The stage column is committed before automations
// run: a failing automation never rolls back the stage, so dispatch is
// at-least-once from the caller's perspective.
func (s *Service) Progress(ctx context.Context, id uuid.UUID, req transport.ProgressRequest) (transport.WorkflowResponse, error) {
	stage := domain.Stage(req.Stage)
	if !domain.IsKnownStage(stage) {
		return transport.WorkflowResponse{}, apperr.New(apperr.KindValidation, fmt.Sprintf("unknown stage %q", req.Stage))
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.WorkflowResponse{}, mapRepoError(err)
	}

	workflow, err := s.repo.SetStage(ctx, id, stage, repository.StageUpdateParams{
		AgreedPriceCents: req.AgreedPriceCents,
		FeeCents:         req.FeeCents,
		BuyerID:          req.BuyerID,
		TenantID:         req.TenantID,
	})
	if err != nil {
		return transport.WorkflowResponse{}, mapRepoError(err)
	}

	s.bus.Publish(ctx, events.WorkflowStageChanged{
		BaseEvent:     events.NewBaseEvent(),
		WorkflowID:    workflow.ID,
		PropertyID:    workflow.PropertyID,
		WorkflowType:  string(workflow.Type),
		PreviousStage: string(current.Stage),
		Stage:         string(workflow.Stage),
	})

	s.dispatchStageAutomations(ctx, workflow)

	return transport.ToWorkflowResponse(workflow), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.WorkflowResponse, error) {
	workflow, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.WorkflowResponse{}, mapRepoError(err)
	}
	return transport.ToWorkflowResponse(workflow), nil
}

func (s *Service) List(ctx context.Context, query transport.ListWorkflowsQuery) ([]transport.WorkflowResponse, error) {
	var workflowType *domain.Type
	if query.Type != "" {
		t := domain.Type(query.Type)
		if !domain.IsKnownType(t) {
			return nil, apperr.New(apperr.KindValidation, fmt.Sprintf("unknown workflow type %q", query.Type))
		}
		workflowType = &t
	}
	var stage *domain.Stage
	if query.Stage != "" {
		st := domain.Stage(query.Stage)
		if !domain.IsKnownStage(st) {
			return nil, apperr.New(apperr.KindValidation, fmt.Sprintf("unknown stage %q", query.Stage))
		}
		stage = &st
	}

	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	workflows, err := s.repo.List(ctx, workflowType, stage, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list workflows", err)
	}
	return transport.ToWorkflowResponses(workflows), nil
}

func (s *Service) StageHistory(ctx context.Context, id uuid.UUID) ([]transport.StageEntryResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, mapRepoError(err)
	}
	entries, err := s.repo.StageHistory(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load stage history", err)
	}
	return transport.ToStageEntryResponses(entries), nil
}

func (s *Service) dispatchStageAutomations(ctx context.Context, workflow repository.Workflow) {
	if s.dispatcher == nil {
		return
	}
	actions, ok := domain.AutomationsFor(workflow.Type, workflow.Stage)
	if !ok {
		return
	}

	dctx := automation.DispatchContext{
		WorkflowID:    workflow.ID,
		RecipientName: workflow.ClientName,
		Vars:          templateVars(workflow),
	}
	if workflow.ClientEmail != nil {
		dctx.RecipientEmail = *workflow.ClientEmail
	}
	if workflow.ClientPhone != nil {
		dctx.RecipientPhone = *workflow.ClientPhone
	}

	s.dispatcher.Dispatch(ctx, string(workflow.Stage), actions, dctx)
}

func templateVars(workflow repository.Workflow) map[string]string {
	vars := map[string]string{
		"client_name":      workflow.ClientName,
		"property_address": workflow.PropertyAddress,
		"stage":            string(workflow.Stage),
		"workflow_type":    string(workflow.Type),
	}
	if workflow.AgreedPriceCents != nil {
		vars["agreed_price"] = formatPence(*workflow.AgreedPriceCents)
	}
	if workflow.FeeCents != nil {
		vars["fee"] = formatPence(*workflow.FeeCents)
	}
	return vars
}

func formatPence(pence int64) string {
	return fmt.Sprintf("£%.2f", float64(pence)/100)
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "workflow not found")
	}
	return apperr.Wrap(apperr.KindInternal, "workflow storage error", err)
}
