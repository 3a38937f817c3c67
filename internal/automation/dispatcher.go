package automation

import (
	"context"
	"errors"
	"time"

	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
)

// Collaborator ports. Each is the narrow slice of an outbound channel the
// dispatcher needs; nil ports mean the channel is not configured in this
// process and its actions are skipped.

// EmailSender delivers a rendered email body.
type EmailSender interface {
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// SMSSender delivers a rendered SMS body.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, body string) error
}

// WhatsAppSender delivers a rendered WhatsApp message.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// DocumentGenerator produces and stores a workflow document.
type DocumentGenerator interface {
	GenerateWorkflowDocument(ctx context.Context, workflowID uuid.UUID, kind string, vars map[string]string) error
}

// AppointmentScheduler books a workflow appointment.
type AppointmentScheduler interface {
	ScheduleAppointment(ctx context.Context, workflowID uuid.UUID, appointmentType string, at time.Time) error
}

// TemplateReader resolves a named communication template to its body.
type TemplateReader interface {
	GetTemplate(ctx context.Context, name string) (string, error)
}

// Dispatcher executes stage automations. Dispatch is fire-and-forget from
// the caller's perspective: every action's failure is caught and logged so
// one failing channel never blocks its siblings, and nothing is retried.
type Dispatcher struct {
	templates    TemplateReader
	email        EmailSender
	sms          SMSSender
	whatsapp     WhatsAppSender
	documents    DocumentGenerator
	appointments AppointmentScheduler
	log          *logger.Logger
}

// New creates a dispatcher. Any collaborator may be nil.
func New(templates TemplateReader, log *logger.Logger) *Dispatcher {
	return &Dispatcher{templates: templates, log: log}
}

func (d *Dispatcher) SetEmailSender(sender EmailSender)           { d.email = sender }
func (d *Dispatcher) SetSMSSender(sender SMSSender)               { d.sms = sender }
func (d *Dispatcher) SetWhatsAppSender(sender WhatsAppSender)     { d.whatsapp = sender }
func (d *Dispatcher) SetDocumentGenerator(gen DocumentGenerator)  { d.documents = gen }
func (d *Dispatcher) SetAppointmentScheduler(s AppointmentScheduler) { d.appointments = s }

var errChannelUnavailable = errors.New("channel not configured")

// Dispatch runs every action in order. The stage name is only used for
// logging; action lists come from the workflow stage table.
func (d *Dispatcher) Dispatch(ctx context.Context, stage string, actions []Action, dctx DispatchContext) {
	for _, action := range actions {
		if err := d.execute(ctx, action, dctx); err != nil {
			d.log.AutomationFailure(stage, string(action.Kind), err)
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, action Action, dctx DispatchContext) error {
	switch action.Kind {
	case KindEmail:
		if d.email == nil {
			return errChannelUnavailable
		}
		if dctx.RecipientEmail == "" {
			return errors.New("recipient has no email address")
		}
		body, err := d.renderTemplate(ctx, action.Template, dctx)
		if err != nil {
			return err
		}
		subject := Render(action.Subject, dctx.Vars)
		return d.email.SendCustomEmail(ctx, dctx.RecipientEmail, subject, body)

	case KindSMS:
		if d.sms == nil {
			return errChannelUnavailable
		}
		if dctx.RecipientPhone == "" {
			return errors.New("recipient has no phone number")
		}
		body, err := d.renderTemplate(ctx, action.Template, dctx)
		if err != nil {
			return err
		}
		return d.sms.SendSMS(ctx, dctx.RecipientPhone, body)

	case KindWhatsApp:
		if d.whatsapp == nil {
			return errChannelUnavailable
		}
		if dctx.RecipientPhone == "" {
			return errors.New("recipient has no phone number")
		}
		body, err := d.renderTemplate(ctx, action.Template, dctx)
		if err != nil {
			return err
		}
		return d.whatsapp.SendMessage(ctx, dctx.RecipientPhone, body)

	case KindDocument:
		if d.documents == nil {
			return errChannelUnavailable
		}
		return d.documents.GenerateWorkflowDocument(ctx, dctx.WorkflowID, action.Document, dctx.Vars)

	case KindAppointment:
		if d.appointments == nil {
			return errChannelUnavailable
		}
		at := time.Now().AddDate(0, 0, action.OffsetDays)
		return d.appointments.ScheduleAppointment(ctx, dctx.WorkflowID, action.AppointmentType, at)

	default:
		return errors.New("unknown action kind: " + string(action.Kind))
	}
}

func (d *Dispatcher) renderTemplate(ctx context.Context, name string, dctx DispatchContext) (string, error) {
	body, err := d.templates.GetTemplate(ctx, name)
	if err != nil {
		return "", err
	}
	return Render(body, dctx.Vars), nil
}
