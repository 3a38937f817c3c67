package webhook

import (
	"context"
	"testing"

	"brokerage_backend/internal/leads/transport"
	"brokerage_backend/platform/logger"
)

type captureRecorder struct {
	requests []transport.CreateLeadRequest
}

func (c *captureRecorder) Create(_ context.Context, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error) {
	c.requests = append(c.requests, req)
	return transport.CreateLeadResponse{Created: true}, nil
}

func TestCaptureWhatsAppKeysOnNumber(t *testing.T) {
	recorder := &captureRecorder{}
	svc := NewService(recorder, logger.New("test"))

	_, err := svc.CaptureWhatsApp(context.Background(), WhatsAppMessage{
		Phone:    "07700 900123",
		PushName: "Sam",
		Message:  "Is the flat on Harbour Lane still available?",
	})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	req := recorder.requests[0]
	if req.Source != "whatsapp" {
		t.Errorf("source = %q", req.Source)
	}
	if req.SourceIdentifier != "+447700900123" {
		t.Errorf("source identifier = %q, want normalized E.164", req.SourceIdentifier)
	}
	if req.Notes == "" {
		t.Error("message text should ride along as enquiry notes")
	}
}

func TestCaptureEmailLowercasesAddress(t *testing.T) {
	recorder := &captureRecorder{}
	svc := NewService(recorder, logger.New("test"))

	_, err := svc.CaptureEmail(context.Background(), EmailEnquiry{
		FromAddress: " Vendor@Example.COM ",
		FromName:    "A Vendor",
		Subject:     "Valuation request",
		Body:        "Please value my house.",
	})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	req := recorder.requests[0]
	if req.SourceIdentifier != "vendor@example.com" {
		t.Errorf("source identifier = %q, want lowercased trimmed address", req.SourceIdentifier)
	}
	if req.Source != "email" {
		t.Errorf("source = %q", req.Source)
	}
}

func TestCaptureCallWithoutTranscript(t *testing.T) {
	recorder := &captureRecorder{}
	svc := NewService(recorder, logger.New("test"))

	_, err := svc.CaptureCall(context.Background(), CallNotification{
		CallerNumber:    "+447700900456",
		DurationSeconds: 95,
	})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	req := recorder.requests[0]
	if req.Source != "phone" {
		t.Errorf("source = %q", req.Source)
	}
	if req.Notes == "" {
		t.Error("calls without transcript still need a note for the negotiator")
	}
}
