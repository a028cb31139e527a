package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LeadMetrics exposes counters/histograms for the contact form flow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	deliveryLatency  *prometheus.HistogramVec
	rateLimitedTotal *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by terminal outcome",
		}, []string{"outcome"}),
		deliveryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadintake",
			Subsystem: "contact",
			Name:      "delivery_seconds",
			Help:      "Latency of lead delivery by channel and status",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"channel", "status"}),
		rateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Subsystem: "ratelimit",
			Name:      "rejected_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"purpose"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.deliveryLatency, m.rateLimitedTotal)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveDelivery(channel string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.deliveryLatency.WithLabelValues(channel, status).Observe(elapsed.Seconds())
}

func (m *LeadMetrics) ObserveRateLimited(purpose string) {
	if m == nil {
		return
	}
	m.rateLimitedTotal.WithLabelValues(purpose).Inc()
}
