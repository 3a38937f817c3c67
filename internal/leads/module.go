// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"
	"fmt"

	"brokerage_backend/internal/events"
	apphttp "brokerage_backend/internal/http"
	"brokerage_backend/internal/leads/handler"
	"brokerage_backend/internal/leads/repository"
	"brokerage_backend/internal/leads/service"
	"brokerage_backend/internal/leads/transport"
	"brokerage_backend/platform/logger"
	"brokerage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnquiryScorer scores free-text enquiry content for a lead. Implementations
// are expected to fall back to a fixed assessment rather than fail.
type EnquiryScorer interface {
	ScoreEnquiry(ctx context.Context, enquiry string) (score int, rationale string, err error)
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, followUps service.FollowUpScheduler, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, followUps, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// SetEnquiryScorer subscribes AI scoring of inbound enquiry text. New leads
// carrying an enquiry get re-scored asynchronously; scoring failures fall
// back inside the scorer and never surface to capture.
func (m *Module) SetEnquiryScorer(scorer EnquiryScorer, eventBus events.Bus, log *logger.Logger) {
	if scorer == nil {
		return
	}

	eventBus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCaptured)
		if !ok || e.Enquiry == "" {
			return nil
		}

		go func() {
			score, rationale, err := scorer.ScoreEnquiry(context.Background(), e.Enquiry)
			if err != nil {
				log.Error("enquiry scoring failed", "error", err, "leadId", e.LeadID)
				return
			}
			if _, err := m.service.UpdateScore(context.Background(), e.LeadID, transport.UpdateScoreRequest{Score: score}); err != nil {
				log.Error("enquiry score update failed", "error", err, "leadId", e.LeadID)
				return
			}
			if rationale != "" {
				note := fmt.Sprintf("AI assessment: %s", rationale)
				if err := m.service.AddNote(context.Background(), e.LeadID, transport.AddNoteRequest{Note: note}); err != nil {
					log.Error("enquiry score note failed", "error", err, "leadId", e.LeadID)
				}
			}
		}()

		return nil
	}))
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the lead repository for worker-side wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.CRM.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
