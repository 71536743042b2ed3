// Package metrics records interview and decision-service activity as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the interview (client side) collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	durations prometheus.Histogram
	answers   *prometheus.CounterVec
}

// New registers the collectors on registry. A nil registry gets a fresh one.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_requests_total",
				Help: "Round trips to the decision service, partitioned by outcome kind or error.",
			},
			[]string{"outcome"},
		),
		durations: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "intake_request_duration_seconds",
				Help:    "Duration of round trips to the decision service.",
				Buckets: prometheus.DefBuckets,
			},
		),
		answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_answers_total",
				Help: "Answers recorded, partitioned by input type.",
			},
			[]string{"type"},
		),
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns controller hooks feeding the client side collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			m.requests.WithLabelValues(string(e.Kind)).Inc()
			m.durations.Observe(e.Duration.Seconds())
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			m.answers.WithLabelValues(string(e.InputType)).Inc()
		},
		OnTransportError: func(ctx context.Context, e *domain.TransportErrorEvent) {
			m.requests.WithLabelValues("error").Inc()
			m.durations.Observe(e.Duration.Seconds())
		},
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Decisions holds the reference service collectors.
type Decisions struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
}

// NewDecisions registers the service collectors on registry. A nil registry gets a fresh one.
func NewDecisions(registry *prometheus.Registry) *Decisions {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &Decisions{
		registry: registry,
		decisions: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_decisions_total",
				Help: "Outcomes decided by the reference service, partitioned by kind.",
			},
			[]string{"outcome"},
		),
	}
}

// Observe counts an outcome decided by the reference service.
func (d *Decisions) Observe(kind domain.OutcomeKind) {
	d.decisions.WithLabelValues(string(kind)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (d *Decisions) Handler() http.Handler {
	return promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})
}
