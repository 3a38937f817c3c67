// Package workflows provides the property workflow bounded context module.
// This file defines the module that encapsulates all workflow setup and
// route registration.
package workflows

import (
	"brokerage_backend/internal/events"
	apphttp "brokerage_backend/internal/http"
	"brokerage_backend/internal/workflows/handler"
	"brokerage_backend/internal/workflows/repository"
	"brokerage_backend/internal/workflows/service"
	"brokerage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the workflows bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the workflows module. dispatcher may be
// nil in processes without outbound channels.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, dispatcher service.AutomationDispatcher, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, dispatcher)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "workflows"
}

// Service returns the workflow service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the workflow repository for worker-side wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts workflow routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	workflowsGroup := ctx.CRM.Group("/workflows")
	m.handler.RegisterRoutes(workflowsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
