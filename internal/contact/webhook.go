package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultWebhookTimeout bounds a single webhook call end to end.
const DefaultWebhookTimeout = 10 * time.Second

// WebhookConfig configures WebhookSender.
type WebhookConfig struct {
	URL         string
	BearerToken string
	// Timeout defaults to DefaultWebhookTimeout.
	Timeout time.Duration
}

// WebhookSender posts leads as JSON to the CRM intake webhook.
type WebhookSender struct {
	url     string
	token   string
	timeout time.Duration
	client  *http.Client
}

// NewWebhookSender creates a sender. A nil client uses http.DefaultClient;
// the per-call timeout is enforced through the request context either way.
func NewWebhookSender(cfg WebhookConfig, client *http.Client) *WebhookSender {
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}
	return &WebhookSender{
		url:     cfg.URL,
		token:   cfg.BearerToken,
		timeout: timeout,
		client:  client,
	}
}

// Deliver implements Deliverer.
func (s *WebhookSender) Deliver(ctx context.Context, lead Lead) error {
	ctx, span := contactTracer.Start(ctx, "contact.webhook.deliver", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := s.post(ctx, lead)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook delivery failed")
	}
	return err
}

func (s *WebhookSender) post(ctx context.Context, lead Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("contact: marshal lead: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("contact: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("User-Agent", "leadintake/1.0")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("contact: webhook request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

var _ Deliverer = (*WebhookSender)(nil)
