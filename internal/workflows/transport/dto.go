// Package transport defines request/response DTOs for the workflows module.
package transport

import (
	"time"

	"brokerage_backend/internal/workflows/repository"

	"github.com/google/uuid"
)

type CreateWorkflowRequest struct {
	PropertyID      uuid.UUID  `json:"propertyId" binding:"required" validate:"required"`
	Type            string     `json:"type" binding:"required" validate:"required,oneof=sale letting"`
	PropertyAddress string     `json:"propertyAddress" binding:"required" validate:"required"`
	ClientName      string     `json:"clientName" binding:"required" validate:"required"`
	ClientEmail     string     `json:"clientEmail" validate:"omitempty,email"`
	ClientPhone     string     `json:"clientPhone"`
	VendorID        *uuid.UUID `json:"vendorId"`
	LandlordID      *uuid.UUID `json:"landlordId"`
}

// ProgressRequest sets the workflow's stage. Extra fields ride along for
// the stages that introduce them (offer price, contract fee, counterparty).
type ProgressRequest struct {
	Stage            string     `json:"stage" binding:"required" validate:"required"`
	AgreedPriceCents *int64     `json:"agreedPriceCents" validate:"omitempty,gte=0"`
	FeeCents         *int64     `json:"feeCents" validate:"omitempty,gte=0"`
	BuyerID          *uuid.UUID `json:"buyerId"`
	TenantID         *uuid.UUID `json:"tenantId"`
}

type ListWorkflowsQuery struct {
	Type   string `form:"type"`
	Stage  string `form:"stage"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type WorkflowResponse struct {
	ID               uuid.UUID  `json:"id"`
	PropertyID       uuid.UUID  `json:"propertyId"`
	Type             string     `json:"type"`
	Stage            string     `json:"stage"`
	PropertyAddress  string     `json:"propertyAddress"`
	ClientName       string     `json:"clientName"`
	ClientEmail      *string    `json:"clientEmail,omitempty"`
	ClientPhone      *string    `json:"clientPhone,omitempty"`
	VendorID         *uuid.UUID `json:"vendorId,omitempty"`
	BuyerID          *uuid.UUID `json:"buyerId,omitempty"`
	LandlordID       *uuid.UUID `json:"landlordId,omitempty"`
	TenantID         *uuid.UUID `json:"tenantId,omitempty"`
	AgreedPriceCents *int64     `json:"agreedPriceCents,omitempty"`
	FeeCents         *int64     `json:"feeCents,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type StageEntryResponse struct {
	Stage     string    `json:"stage"`
	EnteredAt time.Time `json:"enteredAt"`
}

func ToWorkflowResponse(w repository.Workflow) WorkflowResponse {
	return WorkflowResponse{
		ID:               w.ID,
		PropertyID:       w.PropertyID,
		Type:             string(w.Type),
		Stage:            string(w.Stage),
		PropertyAddress:  w.PropertyAddress,
		ClientName:       w.ClientName,
		ClientEmail:      w.ClientEmail,
		ClientPhone:      w.ClientPhone,
		VendorID:         w.VendorID,
		BuyerID:          w.BuyerID,
		LandlordID:       w.LandlordID,
		TenantID:         w.TenantID,
		AgreedPriceCents: w.AgreedPriceCents,
		FeeCents:         w.FeeCents,
		CompletedAt:      w.CompletedAt,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

func ToWorkflowResponses(workflows []repository.Workflow) []WorkflowResponse {
	out := make([]WorkflowResponse, 0, len(workflows))
	for _, w := range workflows {
		out = append(out, ToWorkflowResponse(w))
	}
	return out
}

func ToStageEntryResponses(entries []repository.StageEntry) []StageEntryResponse {
	out := make([]StageEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, StageEntryResponse{Stage: string(e.Stage), EnteredAt: e.EnteredAt})
	}
	return out
}
