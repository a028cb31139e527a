package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/dfw-design-build/leadintake/internal/contact"
	"github.com/dfw-design-build/leadintake/pkg/logging"
)

// LeadAlerter e-mails the sales inbox whenever a contact-form lead has been
// delivered.
type LeadAlerter struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewLeadAlerter returns nil when there is no sender or no recipient, so
// callers can skip wiring it.
func NewLeadAlerter(email EmailSender, recipients []string, logger *logging.Logger) *LeadAlerter {
	var to []string
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	if email == nil || len(to) == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadAlerter{email: email, recipients: to, logger: logger}
}

// NotifyNewLead implements contact.LeadNotifier.
func (a *LeadAlerter) NotifyNewLead(ctx context.Context, lead contact.Lead) error {
	if a == nil {
		return nil
	}

	phone := lead.Phone
	if phone == "" {
		phone = "not provided"
	}
	subject := fmt.Sprintf("New website inquiry - %s (%s)", lead.Name, lead.City)
	body := fmt.Sprintf(`A new inquiry came in through the website.

Name: %s
Email: %s
Phone: %s
City: %s
Submitted: %s

%s
`, lead.Name, lead.Email, phone, lead.City, lead.SubmittedAt, lead.Message)

	htmlBody := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2>New website inquiry</h2>
<table style="border-collapse: collapse; margin: 16px 0;">
  <tr><td style="padding: 6px;"><strong>Name:</strong></td><td style="padding: 6px;">%s</td></tr>
  <tr><td style="padding: 6px;"><strong>Email:</strong></td><td style="padding: 6px;"><a href="mailto:%s">%s</a></td></tr>
  <tr><td style="padding: 6px;"><strong>Phone:</strong></td><td style="padding: 6px;">%s</td></tr>
  <tr><td style="padding: 6px;"><strong>City:</strong></td><td style="padding: 6px;">%s</td></tr>
</table>
<p style="white-space: pre-wrap;">%s</p>
</div>`,
		html.EscapeString(lead.Name),
		html.EscapeString(lead.Email), html.EscapeString(lead.Email),
		html.EscapeString(phone),
		html.EscapeString(lead.City),
		html.EscapeString(lead.Message),
	)

	var errs []error
	for _, recipient := range a.recipients {
		msg := EmailMessage{
			To:      recipient,
			ReplyTo: lead.Email,
			Subject: subject,
			Body:    body,
			HTML:    htmlBody,
		}
		if err := a.email.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d lead alert(s) failed: %w", len(errs), errs[0])
	}
	return nil
}

var _ contact.LeadNotifier = (*LeadAlerter)(nil)
