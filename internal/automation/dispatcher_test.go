package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeTemplates map[string]string

func (f fakeTemplates) GetTemplate(_ context.Context, name string) (string, error) {
	body, ok := f[name]
	if !ok {
		return "", ErrTemplateNotFound
	}
	return body, nil
}

type recordingEmail struct {
	sent []string
	fail bool
}

func (r *recordingEmail) SendCustomEmail(_ context.Context, to, subject, body string) error {
	if r.fail {
		return errors.New("smtp down")
	}
	r.sent = append(r.sent, to+"|"+subject+"|"+body)
	return nil
}

type recordingSMS struct {
	sent []string
}

func (r *recordingSMS) SendSMS(_ context.Context, phone, body string) error {
	r.sent = append(r.sent, phone+"|"+body)
	return nil
}

type recordingWhatsApp struct {
	sent []string
}

func (r *recordingWhatsApp) SendMessage(_ context.Context, phone, message string) error {
	r.sent = append(r.sent, phone+"|"+message)
	return nil
}

type recordingDocs struct {
	kinds []string
}

func (r *recordingDocs) GenerateWorkflowDocument(_ context.Context, _ uuid.UUID, kind string, _ map[string]string) error {
	r.kinds = append(r.kinds, kind)
	return nil
}

type recordingAppointments struct {
	types []string
}

func (r *recordingAppointments) ScheduleAppointment(_ context.Context, _ uuid.UUID, appointmentType string, _ time.Time) error {
	r.types = append(r.types, appointmentType)
	return nil
}

func newTestDispatcher(templates fakeTemplates) *Dispatcher {
	return New(templates, logger.New("development"))
}

func TestDispatchRendersAndSends(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{}
	d := newTestDispatcher(fakeTemplates{
		"viewing_confirmation": "Hi {{client_name}}, viewing at {{property_address}} confirmed",
	})
	d.SetEmailSender(email)
	d.SetSMSSender(sms)

	d.Dispatch(context.Background(), "viewing", []Action{
		Email("viewing_confirmation", "Viewing confirmed: {{property_address}}"),
		SMS("viewing_confirmation"),
	}, DispatchContext{
		RecipientEmail: "sam@example.com",
		RecipientPhone: "+447700900123",
		Vars:           map[string]string{"client_name": "Sam", "property_address": "1 High St"},
	})

	if len(email.sent) != 1 {
		t.Fatalf("email sent = %d, want 1", len(email.sent))
	}
	want := "sam@example.com|Viewing confirmed: 1 High St|Hi Sam, viewing at 1 High St confirmed"
	if email.sent[0] != want {
		t.Errorf("email = %q, want %q", email.sent[0], want)
	}
	if len(sms.sent) != 1 {
		t.Fatalf("sms sent = %d, want 1", len(sms.sent))
	}
}

// One failing channel must not block sibling actions.
func TestDispatchFailureIsolation(t *testing.T) {
	email := &recordingEmail{fail: true}
	whatsapp := &recordingWhatsApp{}
	docs := &recordingDocs{}
	d := newTestDispatcher(fakeTemplates{
		"completion_congrats": "Done {{client_name}}",
	})
	d.SetEmailSender(email)
	d.SetWhatsAppSender(whatsapp)
	d.SetDocumentGenerator(docs)

	d.Dispatch(context.Background(), "completion", []Action{
		Email("completion_congrats", "Completed"),
		WhatsApp("completion_congrats"),
		Document("memorandum_of_sale"),
	}, DispatchContext{
		WorkflowID:     uuid.New(),
		RecipientEmail: "sam@example.com",
		RecipientPhone: "+447700900123",
		Vars:           map[string]string{"client_name": "Sam"},
	})

	if len(whatsapp.sent) != 1 {
		t.Errorf("whatsapp sent = %d, want 1 despite email failure", len(whatsapp.sent))
	}
	if len(docs.kinds) != 1 || docs.kinds[0] != "memorandum_of_sale" {
		t.Errorf("document actions = %v, want [memorandum_of_sale]", docs.kinds)
	}
}

func TestDispatchSkipsUnconfiguredChannels(t *testing.T) {
	// No senders wired at all: dispatch must be a sequence of logged no-ops.
	d := newTestDispatcher(fakeTemplates{"lead_followup": "hi"})
	d.Dispatch(context.Background(), "viewing", []Action{
		Email("lead_followup", "s"),
		SMS("lead_followup"),
		WhatsApp("lead_followup"),
		Document("memorandum_of_sale"),
		Appointment("viewing", 2),
	}, DispatchContext{RecipientEmail: "a@b.c", RecipientPhone: "+4477"})
}

func TestDispatchMissingTemplate(t *testing.T) {
	email := &recordingEmail{}
	d := newTestDispatcher(fakeTemplates{})
	d.SetEmailSender(email)

	d.Dispatch(context.Background(), "offer", []Action{
		Email("does_not_exist", "s"),
	}, DispatchContext{RecipientEmail: "a@b.c"})

	if len(email.sent) != 0 {
		t.Error("email should not send when template resolution fails")
	}
}

func TestDispatchAppointmentOffset(t *testing.T) {
	appts := &recordingAppointments{}
	d := newTestDispatcher(fakeTemplates{})
	d.SetAppointmentScheduler(appts)

	d.Dispatch(context.Background(), "instruction", []Action{
		Appointment("photography", 3),
	}, DispatchContext{WorkflowID: uuid.New()})

	if len(appts.types) != 1 || appts.types[0] != "photography" {
		t.Errorf("appointments = %v, want [photography]", appts.types)
	}
}
