package contact

import (
	"strings"
	"time"
)

// LeadSource tags every lead produced by the website contact form.
const LeadSource = "website-contact-form"

// submittedAtLayout matches the millisecond UTC timestamps the CRM webhook
// already receives from the website, e.g. 2025-03-14T09:00:00.000Z.
const submittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Caller-facing messages. They never carry internal error detail.
const (
	MessageReviewFields = "Please review the highlighted fields and try again."
	MessageSubmitted    = "Thanks! We received your message and will be in touch within one business day."
	MessageSubmitFailed = "We couldn't submit your request right now. Please try again or call us directly."
	MessageRateLimited  = "You've sent several requests in a short time. Please wait a few minutes and try again or call us directly."
)

// Terminal outcomes of one submission, used as log and metric labels.
const (
	OutcomeRejected       = "rejected"
	OutcomeDelivered      = "delivered"
	OutcomeDeliveryFailed = "delivery_failed"
)

// Delivery channels.
const (
	ChannelWebhook = "webhook"
	ChannelFile    = "file"
	ChannelNone    = "none"
)

// Fields is the raw, trimmed form input.
type Fields struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,emailshape"`
	City    string `json:"city" validate:"required,dfwcity"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required,min=20"`
}

// Normalize trims surrounding whitespace from every field.
func (f Fields) Normalize() Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		City:    strings.TrimSpace(f.City),
		Phone:   strings.TrimSpace(f.Phone),
		Message: strings.TrimSpace(f.Message),
	}
}

// Lead is a validated submission. It is the exact JSON body sent to the
// webhook and the exact line written to the local log.
type Lead struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	SubmittedAt string `json:"submittedAt"`
	Source      string `json:"source"`
}

// newLead must only be called with fields that passed Validate.
func newLead(f Fields, now time.Time) Lead {
	city, ok := CanonicalCity(f.City)
	if !ok {
		city = f.City
	}
	return Lead{
		Name:        f.Name,
		Email:       f.Email,
		City:        city,
		Phone:       f.Phone,
		Message:     f.Message,
		SubmittedAt: now.UTC().Format(submittedAtLayout),
		Source:      LeadSource,
	}
}

// FieldErrors maps a field name to the message shown next to it. An empty
// map means every field is valid.
type FieldErrors map[string]string

// SubmissionResult is the only thing the website form sees.
type SubmissionResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors"`
}

func rejected(errs FieldErrors) SubmissionResult {
	return SubmissionResult{Success: false, Message: MessageReviewFields, Errors: errs}
}

func delivered() SubmissionResult {
	return SubmissionResult{Success: true, Message: MessageSubmitted, Errors: FieldErrors{}}
}

func failed() SubmissionResult {
	return SubmissionResult{Success: false, Message: MessageSubmitFailed, Errors: FieldErrors{}}
}

// RateLimitedResult is returned by callers that turn a request away before it
// reaches Submit.
func RateLimitedResult() SubmissionResult {
	return SubmissionResult{Success: false, Message: MessageRateLimited, Errors: FieldErrors{}}
}
