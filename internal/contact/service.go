// Package contact validates website contact-form submissions and delivers
// each resulting lead through exactly one channel: the CRM webhook when one
// is configured, otherwise (outside production) a local NDJSON file.
package contact

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dfw-design-build/leadintake/internal/observability/metrics"
	"github.com/dfw-design-build/leadintake/pkg/logging"
)

var contactTracer = otel.Tracer("leadintake.internal.contact")

// DefaultAlertTimeout bounds one lead alert, across all recipients.
const DefaultAlertTimeout = 5 * time.Second

// Deliverer hands a lead to one destination.
type Deliverer interface {
	Deliver(ctx context.Context, lead Lead) error
}

// LeadNotifier is told about leads after they were delivered.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead Lead) error
}

// Config selects the delivery channel. It is read once per Submit and never
// mutated.
type Config struct {
	WebhookURL   string
	WebhookToken string
	LogFile      string
	Production   bool
}

// Service runs the submission pipeline. It is safe for concurrent use.
type Service struct {
	webhook    Deliverer
	file       Deliverer
	production bool
	notifier   LeadNotifier
	alertLimit time.Duration
	alerts     sync.WaitGroup
	metrics    *metrics.LeadMetrics
	logger     *logging.Logger
	now        func() time.Time
	httpClient *http.Client
}

// Option customizes a Service.
type Option func(*Service)

// WithWebhook replaces the webhook channel. Passing a Deliverer selects the
// webhook path even when no URL is configured.
func WithWebhook(d Deliverer) Option {
	return func(s *Service) { s.webhook = d }
}

// WithFileLog replaces the local file channel.
func WithFileLog(d Deliverer) Option {
	return func(s *Service) { s.file = d }
}

// WithNotifier sends an alert after each successful delivery.
func WithNotifier(n LeadNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithAlertTimeout bounds each lead alert. Non-positive values are ignored.
func WithAlertTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.alertLimit = d
		}
	}
}

// WithMetrics records submission outcomes and delivery latency.
func WithMetrics(m *metrics.LeadMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source used for SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHTTPClient sets the client used for the default webhook sender.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

// NewService builds the pipeline from cfg.
func NewService(cfg Config, logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		production: cfg.Production,
		alertLimit: DefaultAlertTimeout,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.webhook == nil {
		if url := strings.TrimSpace(cfg.WebhookURL); url != "" {
			s.webhook = NewWebhookSender(WebhookConfig{
				URL:         url,
				BearerToken: strings.TrimSpace(cfg.WebhookToken),
			}, s.httpClient)
		}
	}
	if s.file == nil {
		s.file = NewFileLog(strings.TrimSpace(cfg.LogFile))
	}
	return s
}

// Channel reports which channel Submit will use for a valid lead.
func (s *Service) Channel() string {
	switch {
	case s.webhook != nil:
		return ChannelWebhook
	case s.production:
		return ChannelNone
	default:
		return ChannelFile
	}
}

// Submit validates fields and, if they pass, delivers the lead. It never
// returns internal error detail to the caller.
func (s *Service) Submit(ctx context.Context, fields Fields) SubmissionResult {
	ctx, span := contactTracer.Start(ctx, "contact.submit")
	defer span.End()

	fields = fields.Normalize()
	if errs := Validate(fields); len(errs) > 0 {
		s.logger.Debug("contact submission rejected", "fields", fieldNames(errs))
		s.finish(span, OutcomeRejected)
		return rejected(errs)
	}

	lead := newLead(fields, s.now())
	channel := s.Channel()
	span.SetAttributes(attribute.String("contact.channel", channel))

	if err := s.deliver(ctx, channel, lead); err != nil {
		s.logger.Error("lead delivery failed",
			"channel", channel,
			"city", lead.City,
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "lead delivery failed")
		s.finish(span, OutcomeDeliveryFailed)
		return failed()
	}

	s.logger.Info("lead delivered",
		"channel", channel,
		"city", lead.City,
		"submitted_at", lead.SubmittedAt,
	)
	s.notify(ctx, lead)
	s.finish(span, OutcomeDelivered)
	return delivered()
}

func (s *Service) deliver(ctx context.Context, channel string, lead Lead) error {
	var d Deliverer
	switch channel {
	case ChannelWebhook:
		d = s.webhook
	case ChannelFile:
		d = s.file
	default:
		return ErrNoDeliveryChannel
	}

	start := time.Now()
	err := d.Deliver(ctx, lead)
	s.metrics.ObserveDelivery(channel, err, time.Since(start))
	return err
}

// notify sends the lead alert in the background so a slow mail provider
// never holds back the visitor's response. The alert outlives the request
// context but not alertLimit.
func (s *Service) notify(ctx context.Context, lead Lead) {
	if s.notifier == nil {
		return
	}
	alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.alertLimit)
	s.alerts.Add(1)
	go func() {
		defer s.alerts.Done()
		defer cancel()
		if err := s.notifier.NotifyNewLead(alertCtx, lead); err != nil {
			s.logger.Warn("lead alert failed", "error", err)
		}
	}()
}

// Wait blocks until every lead alert started by Submit has finished.
func (s *Service) Wait() {
	s.alerts.Wait()
}

func (s *Service) finish(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String("contact.outcome", outcome))
	s.metrics.ObserveSubmission(outcome)
}

func fieldNames(errs FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for _, field := range []string{"name", "email", "city", "message"} {
		if _, ok := errs[field]; ok {
			names = append(names, field)
		}
	}
	return names
}
