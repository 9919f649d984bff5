package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolve outcomes tracked per request.
const (
	OutcomeCreatedPrimary  = "created_primary"
	OutcomeLinkedSecondary = "linked_secondary"
	OutcomeMerged          = "merged"
	OutcomeNoop            = "noop"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and disables instrumentation, which keeps
// handler and service tests free of registry setup.
type Metrics struct {
	ContactsCreated prometheus.Counter
	Resolves        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ContactsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contactgraph_contacts_created_total",
			Help: "Total number of contact rows created",
		}),
		Resolves: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contactgraph_resolves_total",
			Help: "Total number of identity resolutions by outcome",
		}, []string{"outcome"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contactgraph_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// IncContactsCreated increments the created-contacts counter by 1.
func (m *Metrics) IncContactsCreated() {
	if m == nil {
		return
	}
	m.ContactsCreated.Inc()
}

// IncResolve records a resolve with the given outcome.
func (m *Metrics) IncResolve(outcome string) {
	if m == nil {
		return
	}
	m.Resolves.WithLabelValues(outcome).Inc()
}

// ObserveRequest records request latency for a route.
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}
