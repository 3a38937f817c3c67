package automation

import (
	"github.com/google/uuid"
)

// Kind identifies the collaborator an action is executed through.
type Kind string

const (
	KindEmail       Kind = "email"
	KindSMS         Kind = "sms"
	KindWhatsApp    Kind = "whatsapp"
	KindDocument    Kind = "document"
	KindAppointment Kind = "appointment"
)

// Action is a declarative side-effect descriptor attached to a workflow
// stage. Message actions name a communication template; document actions
// name a document kind; appointment actions carry a scheduling offset.
type Action struct {
	Kind Kind
	// Template is the communication_templates name for message actions.
	Template string
	// Subject is the email subject line for email actions.
	Subject string
	// Document is the document kind for document actions
	// (e.g. "memorandum_of_sale").
	Document string
	// AppointmentType is the appointment kind for appointment actions.
	AppointmentType string
	// OffsetDays is how many days ahead an appointment action schedules.
	OffsetDays int
}

// Email builds an email action.
func Email(template, subject string) Action {
	return Action{Kind: KindEmail, Template: template, Subject: subject}
}

// SMS builds an SMS action.
func SMS(template string) Action {
	return Action{Kind: KindSMS, Template: template}
}

// WhatsApp builds a WhatsApp action.
func WhatsApp(template string) Action {
	return Action{Kind: KindWhatsApp, Template: template}
}

// Document builds a document-generation action.
func Document(kind string) Action {
	return Action{Kind: KindDocument, Document: kind}
}

// Appointment builds an appointment-scheduling action.
func Appointment(appointmentType string, offsetDays int) Action {
	return Action{Kind: KindAppointment, AppointmentType: appointmentType, OffsetDays: offsetDays}
}

// DispatchContext carries the runtime data actions need: who to reach and
// the variables available to template rendering.
type DispatchContext struct {
	WorkflowID     uuid.UUID
	RecipientName  string
	RecipientEmail string
	RecipientPhone string
	Vars           map[string]string
}
