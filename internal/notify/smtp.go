// Package notify delivers rendered run reports. The SMTP notifier is
// the production implementation; tests substitute fakes behind the
// Notifier interface.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/Kinetic-Blast/SQL-Import/internal/ingest"
)

// Notifier accepts a rendered report and delivers it. Delivery failure
// is the one error with no fallback channel, so callers let it reach
// the process exit path.
type Notifier interface {
	Send(ctx context.Context, report ingest.RenderedReport) error
}

// SMTPOptions configures the mail notifier. Username and Password are
// optional; when empty the client connects unauthenticated, which suits
// internal relays.
type SMTPOptions struct {
	Host     string
	Port     int
	From     string
	To       []string
	Username string
	Password string
}

// SMTP sends reports as multipart email: plain text with an HTML
// alternative, the way mail clients expect.
type SMTP struct {
	client *mail.Client
	from   string
	to     []string
}

// NewSMTP builds the mail client up front so address and option errors
// surface at startup, not after a run has finished.
func NewSMTP(opts SMTPOptions) (*SMTP, error) {
	clientOpts := []mail.Option{
		mail.WithPort(opts.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(opts.Username),
			mail.WithPassword(opts.Password),
		)
	}

	client, err := mail.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTP{client: client, from: opts.From, to: opts.To}, nil
}

// Send delivers the report to every configured recipient.
func (s *SMTP) Send(ctx context.Context, report ingest.RenderedReport) error {
	msg, err := buildMessage(s.from, s.to, report)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("deliver report: %w", err)
	}
	return nil
}

// buildMessage assembles the multipart message. Split out so tests can
// check the envelope without a running SMTP server.
func buildMessage(from string, to []string, report ingest.RenderedReport) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("to addresses: %w", err)
	}
	msg.Subject(report.Subject)
	msg.SetBodyString(mail.TypeTextPlain, report.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, report.HTML)
	return msg, nil
}
