// Package transport defines request/response DTOs for the leads module.
package transport

import (
	"time"

	"brokerage_backend/internal/leads/repository"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	Source           string `json:"source" binding:"required" validate:"required"`
	SourceIdentifier string `json:"sourceIdentifier" binding:"required" validate:"required"`
	Name             string `json:"name"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone"`
	Score            *int   `json:"score" validate:"omitempty,gte=0,lte=100"`
	Notes            string `json:"notes"`
}

type RecordContactRequest struct {
	Channel   string `json:"channel" binding:"required" validate:"required,oneof=phone sms whatsapp email in_person"`
	Direction string `json:"direction" binding:"required" validate:"required,oneof=inbound outbound"`
	Content   string `json:"content"`
	Outcome   string `json:"outcome" validate:"omitempty,oneof=answered no_answer voicemail callback_requested not_interested"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"required"`
}

type UpdateScoreRequest struct {
	Score int `json:"score" validate:"gte=0,lte=100"`
}

type AssignAgentRequest struct {
	AgentID *uuid.UUID `json:"agentId"`
}

type AddNoteRequest struct {
	Note string `json:"note" binding:"required" validate:"required"`
}

type ListLeadsQuery struct {
	Status      string `form:"status"`
	Source      string `form:"source"`
	Temperature string `form:"temperature"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

type LeadResponse struct {
	ID               uuid.UUID  `json:"id"`
	Source           string     `json:"source"`
	SourceIdentifier string     `json:"sourceIdentifier"`
	Name             string     `json:"name,omitempty"`
	Email            *string    `json:"email,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	Score            int        `json:"score"`
	Temperature      string     `json:"temperature"`
	Status           string     `json:"status"`
	ContactAttempts  int        `json:"contactAttempts"`
	Notes            string     `json:"notes,omitempty"`
	AssignedAgentID  *uuid.UUID `json:"assignedAgentId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CreateLeadResponse reports whether the lead was newly created or matched an
// existing (source, sourceIdentifier) pair.
type CreateLeadResponse struct {
	Lead    LeadResponse `json:"lead"`
	Created bool         `json:"created"`
}

type ContactRecordResponse struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	Channel   string    `json:"channel"`
	Direction string    `json:"direction"`
	Content   string    `json:"content,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:               lead.ID,
		Source:           string(lead.Source),
		SourceIdentifier: lead.SourceIdentifier,
		Name:             lead.Name,
		Email:            lead.Email,
		Phone:            lead.Phone,
		Score:            lead.Score,
		Temperature:      string(lead.Temperature),
		Status:           string(lead.Status),
		ContactAttempts:  lead.ContactAttempts,
		Notes:            lead.Notes,
		AssignedAgentID:  lead.AssignedAgentID,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

func ToContactRecordResponse(record repository.ContactRecord) ContactRecordResponse {
	return ContactRecordResponse{
		ID:        record.ID,
		LeadID:    record.LeadID,
		Channel:   record.Channel,
		Direction: record.Direction,
		Content:   record.Content,
		Outcome:   record.Outcome,
		CreatedAt: record.CreatedAt,
	}
}
