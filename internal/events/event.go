// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"brokerage_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published when a new lead row is created, from any source.
// It is not published for deduplicated opportunities that matched an
// existing (source, sourceIdentifier) pair.
type LeadCaptured struct {
	BaseEvent
	LeadID           uuid.UUID `json:"leadId"`
	Source           string    `json:"source"`
	SourceIdentifier string    `json:"sourceIdentifier"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Score            int       `json:"score"`
	Temperature      string    `json:"temperature"`
	Enquiry          string    `json:"enquiry,omitempty"`
}

func (e LeadCaptured) EventName() string { return "leads.captured" }

// LeadStatusChanged is published when a lead moves through its lifecycle.
type LeadStatusChanged struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadContactRecorded is published after an outreach attempt is logged
// against a lead.
type LeadContactRecorded struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	Channel         string    `json:"channel"`
	Direction       string    `json:"direction"`
	Outcome         string    `json:"outcome"`
	ContactAttempts int       `json:"contactAttempts"`
}

func (e LeadContactRecorded) EventName() string { return "leads.contact.recorded" }

// LeadFollowUpDue is published by the scheduler worker when a lead's
// follow-up reminder fires and the lead is still awaiting a response.
type LeadFollowUpDue struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Phone  string    `json:"phone,omitempty"`
	Email  string    `json:"email,omitempty"`
	Name   string    `json:"name,omitempty"`
}

func (e LeadFollowUpDue) EventName() string { return "leads.followup.due" }

// =============================================================================
// Workflow Domain Events
// =============================================================================

// WorkflowStageChanged is published after a property workflow's stage column
// has been committed. Automation dispatch happens after this event, so
// subscribers must tolerate automations that have not run yet.
type WorkflowStageChanged struct {
	BaseEvent
	WorkflowID    uuid.UUID `json:"workflowId"`
	PropertyID    uuid.UUID `json:"propertyId"`
	WorkflowType  string    `json:"workflowType"`
	PreviousStage string    `json:"previousStage"`
	Stage         string    `json:"stage"`
}

func (e WorkflowStageChanged) EventName() string { return "workflows.stage.changed" }

// WorkflowStalled is published when a stage reminder fires and the workflow
// has not moved since the reminder was scheduled.
type WorkflowStalled struct {
	BaseEvent
	WorkflowID uuid.UUID `json:"workflowId"`
	Stage      string    `json:"stage"`
	StaleSince string    `json:"staleSince"`
}

func (e WorkflowStalled) EventName() string { return "workflows.stalled" }
