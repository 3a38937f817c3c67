package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"time"

	"brokerage_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender builds a sender from config, or nil when SMTP is not
// configured (callers substitute NoopSender).
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	if !cfg.GetEmailEnabled() {
		return nil
	}
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	content, err := renderEmailTemplate("custom.html", customEmailData{
		baseEmailData: baseEmailData{Title: subject, Heading: subject},
		Body:          template.HTML(htmlContent),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendFollowUpReminder(ctx context.Context, toEmail, leadName, lastOutcome string) error {
	if lastOutcome == "" {
		lastOutcome = "no outcome recorded"
	}
	content, err := renderEmailTemplate("followup.html", followUpEmailData{
		baseEmailData: baseEmailData{Title: "Lead follow-up due", Heading: "Lead follow-up due"},
		LeadName:      leadName,
		LastOutcome:   lastOutcome,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf("Follow up with %s", leadName), content)
}

func (s *SMTPSender) SendStageReminder(ctx context.Context, toEmail, propertyAddress, stage string, daysInStage int) error {
	content, err := renderEmailTemplate("stage_reminder.html", stageReminderEmailData{
		baseEmailData:   baseEmailData{Title: "Workflow needs attention", Heading: "Workflow needs attention"},
		PropertyAddress: propertyAddress,
		Stage:           stage,
		DaysInStage:     daysInStage,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf("%s is stuck in %s", propertyAddress, stage), content)
}

var _ Sender = (*SMTPSender)(nil)
