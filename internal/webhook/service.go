// Package webhook normalizes inbound channel payloads into lead capture:
// WhatsApp gateway messages, parsed enquiry emails, and call-tracking
// notifications all land here and come out as leads.
package webhook

import (
	"context"
	"fmt"
	"strings"

	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/leads/transport"
	"brokerage_backend/platform/logger"
	"brokerage_backend/platform/phone"
)

// LeadCreator is the slice of the lead service inbound capture needs.
type LeadCreator interface {
	Create(ctx context.Context, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error)
}

// inboundScore is the starting score for any inbound contact: someone who
// reached out themselves sits above a cold canvass but below a scanned
// hot prospect until the enquiry is assessed.
const inboundScore = 60

type Service struct {
	leads LeadCreator
	log   *logger.Logger
}

func NewService(leads LeadCreator, log *logger.Logger) *Service {
	return &Service{leads: leads, log: log}
}

// WhatsAppMessage is the gowa gateway's inbound webhook payload.
type WhatsAppMessage struct {
	Phone    string `json:"phone" binding:"required" validate:"required"`
	PushName string `json:"pushName"`
	Message  string `json:"message"`
}

// CaptureWhatsApp turns an inbound WhatsApp message into a lead. The
// sender's number is the dedup identity, so a conversation of many
// messages stays one lead; later messages supplement contact details.
func (s *Service) CaptureWhatsApp(ctx context.Context, msg WhatsAppMessage) (transport.CreateLeadResponse, error) {
	normalized := phone.NormalizeE164(msg.Phone)
	return s.leads.Create(ctx, transport.CreateLeadRequest{
		Source:           string(domain.SourceWhatsApp),
		SourceIdentifier: normalized,
		Name:             msg.PushName,
		Phone:            normalized,
		Score:            scorePtr(inboundScore),
		Notes:            msg.Message,
	})
}

// EmailEnquiry is the parsed-email webhook payload from the inbox
// integration.
type EmailEnquiry struct {
	FromAddress string `json:"fromAddress" binding:"required" validate:"required,email"`
	FromName    string `json:"fromName"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// CaptureEmail turns a parsed enquiry email into a lead keyed on the
// sender address.
func (s *Service) CaptureEmail(ctx context.Context, enquiry EmailEnquiry) (transport.CreateLeadResponse, error) {
	address := strings.ToLower(strings.TrimSpace(enquiry.FromAddress))
	notes := enquiry.Body
	if enquiry.Subject != "" {
		notes = fmt.Sprintf("%s\n\n%s", enquiry.Subject, enquiry.Body)
	}
	return s.leads.Create(ctx, transport.CreateLeadRequest{
		Source:           string(domain.SourceEmail),
		SourceIdentifier: address,
		Name:             enquiry.FromName,
		Email:            address,
		Score:            scorePtr(inboundScore),
		Notes:            notes,
	})
}

// CallNotification is the call-tracking provider's webhook payload.
type CallNotification struct {
	CallerNumber    string `json:"callerNumber" binding:"required" validate:"required"`
	CallerName      string `json:"callerName"`
	DurationSeconds int    `json:"durationSeconds"`
	Transcript      string `json:"transcript"`
}

// CaptureCall turns a tracked phone call into a lead keyed on the caller
// number. A transcript, when the provider supplies one, rides along as
// the enquiry text for assessment.
func (s *Service) CaptureCall(ctx context.Context, call CallNotification) (transport.CreateLeadResponse, error) {
	normalized := phone.NormalizeE164(call.CallerNumber)
	notes := call.Transcript
	if notes == "" {
		notes = fmt.Sprintf("Inbound call, %d seconds, no transcript", call.DurationSeconds)
	}
	return s.leads.Create(ctx, transport.CreateLeadRequest{
		Source:           string(domain.SourcePhone),
		SourceIdentifier: normalized,
		Name:             call.CallerName,
		Phone:            normalized,
		Score:            scorePtr(inboundScore),
		Notes:            notes,
	})
}

func scorePtr(score int) *int { return &score }
