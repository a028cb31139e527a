package contact

import (
	"context"
	"encoding/json"
	"math"
	"mime"
	"net"
	"net/http"
	"strconv"

	"github.com/dfw-design-build/leadintake/internal/observability/metrics"
	"github.com/dfw-design-build/leadintake/internal/ratelimit"
	"github.com/dfw-design-build/leadintake/pkg/logging"
)

const (
	maxBodyBytes = 64 << 10
	// RateLimitPurpose prefixes limiter keys for this endpoint.
	RateLimitPurpose = "contact"
)

// Submitter runs the submission pipeline.
type Submitter interface {
	Submit(ctx context.Context, fields Fields) SubmissionResult
}

// Handler handles HTTP requests for the contact form
type Handler struct {
	service Submitter
	limiter ratelimit.Limiter
	metrics *metrics.LeadMetrics
	logger  *logging.Logger
}

// NewHandler creates a contact handler. limiter and m may be nil.
func NewHandler(service Submitter, limiter ratelimit.Limiter, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		limiter: limiter,
		metrics: m,
		logger:  logger,
	}
}

// Submit handles POST /api/contact requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		ip := clientIP(r)
		decision := h.limiter.Check(r.Context(), RateLimitPurpose+":"+ip)
		if !decision.Allowed {
			h.metrics.ObserveRateLimited(RateLimitPurpose)
			h.logger.Warn("contact submission rate limited", "remote_ip", ip, "retry_after_ms", decision.RetryAfterMs())
			w.Header().Set("Retry-After", retryAfterSeconds(decision))
			writeResult(w, http.StatusTooManyRequests, RateLimitedResult())
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	fields := h.readFields(r)

	result := h.service.Submit(r.Context(), fields)
	writeResult(w, statusFor(result), result)
}

// Cities handles GET /api/contact/cities so the form's city select offers
// exactly the cities validation accepts.
func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string][]string{"cities": ServiceAreaCities()})
}

// readFields never fails: an unreadable body is an empty field bag, which
// validation then reports field by field.
func (h *Handler) readFields(r *http.Request) Fields {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.logger.Debug("contact body is not a json object", "error", err)
			return Fields{}
		}
		return FieldsFromMap(body)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			h.logger.Debug("failed to parse multipart contact body", "error", err)
			return Fields{}
		}
	default:
		if err := r.ParseForm(); err != nil {
			h.logger.Debug("failed to parse contact form", "error", err)
			return Fields{}
		}
	}
	return FieldsFromForm(r.PostForm)
}

func statusFor(result SubmissionResult) int {
	switch {
	case result.Success:
		return http.StatusOK
	case len(result.Errors) > 0:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeResult(w http.ResponseWriter, status int, result SubmissionResult) {
	if result.Errors == nil {
		result.Errors = FieldErrors{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}

func retryAfterSeconds(d ratelimit.Decision) string {
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP expects chi's RealIP middleware to have already replaced
// RemoteAddr with the forwarded client address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
