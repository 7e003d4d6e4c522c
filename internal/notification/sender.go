// Package notification sends emails in response to domain events.
// Domain modules publish events; this module subscribes and inverts
// the dependency so they never touch SMTP details.
package notification

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"safari_crm_backend/platform/config"
)

const (
	subjectLeadAssigned = "A safari lead was assigned to you"
	subjectNewLead      = "New safari lead in your pipeline"
)

// Mailer delivers notification emails.
type Mailer interface {
	SendLeadAssigned(ctx context.Context, toEmail, leadName string) error
	SendNewLeadAlert(ctx context.Context, toEmail, leadName, source string) error
}

// SMTPSender implements Mailer over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTP-backed mailer from the mail config.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetMailFromName(),
		fromEmail: cfg.GetMailFromAddress(),
	}
}

var _ Mailer = (*SMTPSender)(nil)

func (s *SMTPSender) SendLeadAssigned(ctx context.Context, toEmail, leadName string) error {
	body := fmt.Sprintf(
		"The lead %q has been assigned to you.\n\nOpen the dashboard to review the travel details and get in touch.\n",
		leadName,
	)
	return s.send(ctx, toEmail, subjectLeadAssigned, body)
}

func (s *SMTPSender) SendNewLeadAlert(ctx context.Context, toEmail, leadName, source string) error {
	body := fmt.Sprintf(
		"A new lead %q just arrived via %s and is waiting in your pipeline.\n",
		leadName, source,
	)
	return s.send(ctx, toEmail, subjectNewLead, body)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

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
