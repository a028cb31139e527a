package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/dfw-design-build/leadintake/pkg/logging"
)

// EmailSender defines the interface for sending emails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	Body    string // Plain text body
	HTML    string // Optional HTML body
}

// sendGridClient is the part of *sendgrid.Client the sender uses.
type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*sendGridResponse, error)
}

type sendGridResponse struct {
	StatusCode int
	Body       string
}

type sendGridAdapter struct {
	client *sendgrid.Client
}

func (a sendGridAdapter) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*sendGridResponse, error) {
	resp, err := a.client.SendWithContext(ctx, email)
	if err != nil {
		return nil, err
	}
	return &sendGridResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// SendGridSender sends emails via SendGrid API.
type SendGridSender struct {
	client    sendGridClient
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a new SendGrid email sender. It returns nil when
// no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "DFW Design-Build Website"
	}
	return &SendGridSender{
		client:    sendGridAdapter{client: sendgrid.NewSendClient(cfg.APIKey)},
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)
	if msg.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return nil
}

// StubEmailSender writes alerts to the log instead of mailing them. Local
// runs use it when LEAD_ALERT_EMAIL is set without a SendGrid key.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("notify: stub send: %w", err)
	}
	s.logger.Info("lead alert logged, not mailed",
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
	)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
