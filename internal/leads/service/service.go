// Package service implements lead lifecycle operations: capture with dedup,
// outreach recording, scoring, and status changes.
package service

import (
	"context"
	"errors"
	"time"

	"brokerage_backend/internal/events"
	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/leads/repository"
	"brokerage_backend/internal/leads/transport"
	"brokerage_backend/platform/apperr"
	"brokerage_backend/platform/logger"
	"brokerage_backend/platform/phone"
	"brokerage_backend/platform/sanitize"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
)

const (
	defaultManualScore = 50

	// followUpDelay is how long after an unanswered outreach attempt the
	// follow-up reminder fires.
	followUpDelay = 72 * time.Hour
)

// Repository is the data access surface the service needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.ContactLogger
}

// FollowUpScheduler schedules a delayed follow-up reminder for a lead.
// Implemented by the asynq scheduler client; nil-safe by contract.
type FollowUpScheduler interface {
	ScheduleLeadFollowUp(ctx context.Context, leadID uuid.UUID, runAt time.Time) error
}

// Service handles lead lifecycle operations.
type Service struct {
	repo      Repository
	bus       events.Bus
	followUps FollowUpScheduler
	log       *logger.Logger
}

// New creates a new lead service. followUps may be nil when the process has
// no scheduler connection (e.g. in the API server without redis).
func New(repo Repository, bus events.Bus, followUps FollowUpScheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, followUps: followUps, log: log}
}

// Create captures a lead from an inbound channel or a manual CRM entry.
// Dedup is handled by the storage layer's unique (source, source_identifier)
// constraint; a duplicate returns the existing lead with Created=false and
// supplements any contact fields the existing row is missing.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error) {
	source := domain.Source(req.Source)
	if !domain.IsKnownSource(source) {
		return transport.CreateLeadResponse{}, apperr.Validation("unknown lead source")
	}
	if req.SourceIdentifier == "" {
		return transport.CreateLeadResponse{}, apperr.Validation("source identifier is required")
	}
	if req.Email != "" {
		if err := checkmail.ValidateFormat(req.Email); err != nil {
			return transport.CreateLeadResponse{}, apperr.Validation("invalid email address")
		}
	}

	score := defaultManualScore
	if req.Score != nil {
		score = domain.ClampScore(*req.Score)
	}

	params := repository.CreateLeadParams{
		Source:           source,
		SourceIdentifier: req.SourceIdentifier,
		Name:             sanitize.Text(req.Name),
		Score:            score,
		Temperature:      domain.TemperatureForScore(score),
		Notes:            sanitize.Text(req.Notes),
	}
	if req.Email != "" {
		params.Email = &req.Email
	}
	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		params.Phone = &normalized
	}

	lead, created, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.CreateLeadResponse{}, err
	}

	if !created {
		// Same opportunity seen again: merge any newly learned contact
		// details into fields the existing row lacks.
		if params.Name != "" || params.Email != nil || params.Phone != nil {
			var namePtr *string
			if params.Name != "" {
				namePtr = &params.Name
			}
			if updated, err := s.repo.SupplementContact(ctx, lead.ID, namePtr, params.Email, params.Phone); err == nil {
				lead = updated
			}
		}
		return transport.CreateLeadResponse{Lead: transport.ToLeadResponse(lead), Created: false}, nil
	}

	s.publishCaptured(ctx, lead, req.Notes)
	return transport.CreateLeadResponse{Lead: transport.ToLeadResponse(lead), Created: true}, nil
}

func (s *Service) publishCaptured(ctx context.Context, lead repository.Lead, enquiry string) {
	if s.bus == nil {
		return
	}
	event := events.LeadCaptured{
		BaseEvent:        events.NewBaseEvent(),
		LeadID:           lead.ID,
		Source:           string(lead.Source),
		SourceIdentifier: lead.SourceIdentifier,
		Name:             lead.Name,
		Score:            lead.Score,
		Temperature:      string(lead.Temperature),
		Enquiry:          enquiry,
	}
	if lead.Email != nil {
		event.Email = *lead.Email
	}
	if lead.Phone != nil {
		event.Phone = *lead.Phone
	}
	s.bus.Publish(ctx, event)
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// List retrieves leads matching the given filters.
func (s *Service) List(ctx context.Context, query transport.ListLeadsQuery) ([]transport.LeadResponse, error) {
	params := repository.ListLeadsParams{Limit: query.Limit, Offset: query.Offset}
	if query.Status != "" {
		status := domain.Status(query.Status)
		if !domain.IsKnownStatus(status) {
			return nil, apperr.Validation("unknown status filter")
		}
		params.Status = &status
	}
	if query.Source != "" {
		source := domain.Source(query.Source)
		if !domain.IsKnownSource(source) {
			return nil, apperr.Validation("unknown source filter")
		}
		params.Source = &source
	}
	if query.Temperature != "" {
		temp := domain.Temperature(query.Temperature)
		params.Temperature = &temp
	}

	leads, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, transport.ToLeadResponse(lead))
	}
	return responses, nil
}

// RecordContact appends an outreach attempt to the lead's contact history.
// The attempt counter increments by exactly one and the status is always set
// back to contacted, whatever it was before. That includes converted and
// declined leads; see the contact_history log for the full trail.
func (s *Service) RecordContact(ctx context.Context, leadID uuid.UUID, req transport.RecordContactRequest) (transport.LeadResponse, error) {
	lead, record, err := s.repo.RecordContact(ctx, repository.RecordContactParams{
		LeadID:    leadID,
		Channel:   req.Channel,
		Direction: req.Direction,
		Content:   sanitize.Text(req.Content),
		Outcome:   req.Outcome,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadContactRecorded{
			BaseEvent:       events.NewBaseEvent(),
			LeadID:          lead.ID,
			Channel:         record.Channel,
			Direction:       record.Direction,
			Outcome:         record.Outcome,
			ContactAttempts: lead.ContactAttempts,
		})
	}

	if s.followUps != nil && req.Direction == "outbound" && req.Outcome == "no_answer" {
		// Best effort: the contact is already recorded, but a lost reminder
		// should at least be visible in the logs.
		if err := s.followUps.ScheduleLeadFollowUp(ctx, lead.ID, time.Now().Add(followUpDelay)); err != nil {
			s.log.Error("failed to schedule lead follow-up", "lead_id", lead.ID, "error", err)
		}
	}

	return transport.ToLeadResponse(lead), nil
}

// ContactHistory returns the append-only outreach log for a lead.
func (s *Service) ContactHistory(ctx context.Context, leadID uuid.UUID) ([]transport.ContactRecordResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}

	records, err := s.repo.ListContactHistory(ctx, leadID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.ContactRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, transport.ToContactRecordResponse(record))
	}
	return responses, nil
}

// UpdateStatus moves the lead to a new lifecycle status. Any known status is
// accepted from any current status; the happy-path ordering is not enforced.
func (s *Service) UpdateStatus(ctx context.Context, leadID uuid.UUID, req transport.UpdateStatusRequest) (transport.LeadResponse, error) {
	status := domain.Status(req.Status)
	if !domain.IsKnownStatus(status) {
		return transport.LeadResponse{}, apperr.Validation("unknown status")
	}

	current, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.UpdateStatus(ctx, leadID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if s.bus != nil && current.Status != lead.Status {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         lead.ID,
			PreviousStatus: string(current.Status),
			Status:         string(lead.Status),
		})
	}

	return transport.ToLeadResponse(lead), nil
}

// UpdateScore sets the lead's score and rederives its temperature bucket.
func (s *Service) UpdateScore(ctx context.Context, leadID uuid.UUID, req transport.UpdateScoreRequest) (transport.LeadResponse, error) {
	score := domain.ClampScore(req.Score)
	lead, err := s.repo.UpdateScore(ctx, leadID, score, domain.TemperatureForScore(score))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// AssignAgent sets or clears the responsible agent.
func (s *Service) AssignAgent(ctx context.Context, leadID uuid.UUID, req transport.AssignAgentRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.AssignAgent(ctx, leadID, req.AgentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// AddNote appends a free-text note to the lead.
func (s *Service) AddNote(ctx context.Context, leadID uuid.UUID, req transport.AddNoteRequest) error {
	note := sanitize.Text(req.Note)
	if note == "" {
		return apperr.Validation("note is empty")
	}
	if err := s.repo.AppendNote(ctx, leadID, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}
	return nil
}
