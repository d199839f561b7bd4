// Package metrics defines the Prometheus metrics exposed by the bot.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Webhook metrics
	WebhookEventsTotal     *prometheus.CounterVec
	WebhookDurationSeconds prometheus.Histogram

	// Matching metrics
	MatchesTotal *prometheus.CounterVec
	RepliesTotal *prometheus.CounterVec

	// Polishing metrics
	PolishRequestsTotal  *prometheus.CounterVec
	PolishFallbacksTotal prometheus.Counter

	// Delivery metrics
	SendTotal *prometheus.CounterVec

	// Catalog metrics
	CatalogReloadsTotal *prometheus.CounterVec
	CatalogItems        prometheus.Gauge

	// Rate limiter metrics
	RateLimitedTotal prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered.
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		WebhookEventsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweetbot_webhook_events_total",
				Help: "Total webhook events by kind and status",
			},
			[]string{"kind", "status"}, // kind: text, attachment, other; status: ok, dropped, error
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sweetbot_webhook_duration_seconds",
				Help:    "End-to-end handling duration per message",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 15},
			},
		),

		MatchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweetbot_matches_total",
				Help: "Match attempts by winning strategy",
			},
			[]string{"strategy"}, // exact, substring, ratio, none
		),

		RepliesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweetbot_replies_total",
				Help: "Composed replies by branch",
			},
			[]string{"branch"}, // pause, resume, paused, menu, price, suggestion, fallback
		),

		PolishRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweetbot_polish_requests_total",
				Help: "Polishing provider calls by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error
		),

		PolishFallbacksTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "sweetbot_polish_fallbacks_total",
				Help: "Replies sent unpolished after provider exhaustion",
			},
		),

		SendTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweetbot_send_total",
				Help: "Outbound Messenger sends by status code",
			},
			[]string{"status"},
		),

		CatalogReloadsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweetbot_catalog_reloads_total",
				Help: "Catalog reload attempts by status",
			},
			[]string{"status"}, // success, error
		),

		CatalogItems: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "sweetbot_catalog_items",
				Help: "Products in the live catalog index",
			},
		),

		RateLimitedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "sweetbot_rate_limited_total",
				Help: "Messages dropped by the per-user rate limiter",
			},
		),
	}
}

// RecordWebhook records one handled webhook event.
func (m *Metrics) RecordWebhook(kind, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(kind, status).Inc()
	if duration > 0 {
		m.WebhookDurationSeconds.Observe(duration.Seconds())
	}
}

// RecordMatch records the strategy that produced (or failed to produce) candidates.
func (m *Metrics) RecordMatch(strategy string) {
	if m == nil {
		return
	}
	m.MatchesTotal.WithLabelValues(strategy).Inc()
}

// RecordReply records the composed reply branch.
func (m *Metrics) RecordReply(branch string) {
	if m == nil {
		return
	}
	m.RepliesTotal.WithLabelValues(branch).Inc()
}

// RecordPolish records one polishing provider call.
func (m *Metrics) RecordPolish(provider, status string) {
	if m == nil {
		return
	}
	m.PolishRequestsTotal.WithLabelValues(provider, status).Inc()
}

// RecordRateLimited records one message dropped by the per-user limiter.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

// RecordCatalogReload records one reload attempt and, on success, the
// new item count.
func (m *Metrics) RecordCatalogReload(status string, items int) {
	if m == nil {
		return
	}
	m.CatalogReloadsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		m.CatalogItems.Set(float64(items))
	}
}

// RecordSend records one outbound delivery attempt.
func (m *Metrics) RecordSend(statusCode int) {
	if m == nil {
		return
	}
	m.SendTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}
