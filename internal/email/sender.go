// Package email delivers outbound mail for workflow automations and lead
// follow-up reminders.
package email

import "context"

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string // e.g. "memorandum-of-sale.pdf"
	MIMEType string // e.g. "application/pdf"
}

type Sender interface {
	// SendCustomEmail wraps pre-rendered HTML content in the branded
	// layout and delivers it. Workflow automations and templated lead
	// messages come through here.
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
	// SendFollowUpReminder nudges the assigned negotiator about a lead
	// whose outreach went unanswered.
	SendFollowUpReminder(ctx context.Context, toEmail, leadName, lastOutcome string) error
	// SendStageReminder nudges the negotiator about a workflow sitting in
	// the same stage past its reminder window.
	SendStageReminder(ctx context.Context, toEmail, propertyAddress, stage string, daysInStage int) error
}

// NoopSender is used when SMTP is not configured; sends succeed silently.
type NoopSender struct{}

func (NoopSender) SendCustomEmail(context.Context, string, string, string) error { return nil }
func (NoopSender) SendFollowUpReminder(context.Context, string, string, string) error {
	return nil
}
func (NoopSender) SendStageReminder(context.Context, string, string, string, int) error {
	return nil
}

var _ Sender = NoopSender{}
