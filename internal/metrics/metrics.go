package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	SubmissionsTotal    *prometheus.CounterVec
	RejectedSubmissions prometheus.Counter
	CrewsCreated        prometheus.Counter
	GroupTransitions    *prometheus.CounterVec
}

// New registers every collector on a fresh registry so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rental_ops",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rental_ops",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rental_ops",
			Name:      "submissions_total",
			Help:      "Form submissions stored, by role.",
		}, []string{"role"}),
		RejectedSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rental_ops",
			Name:      "submissions_rejected_closed_total",
			Help:      "Submissions refused because the group was archived.",
		}),
		CrewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rental_ops",
			Name:      "crews_created_total",
			Help:      "Crews created by crew leader submissions.",
		}),
		GroupTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rental_ops",
			Name:      "group_transitions_total",
			Help:      "Group lifecycle changes by target stage.",
		}, []string{"stage"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.SubmissionsTotal,
		m.RejectedSubmissions,
		m.CrewsCreated,
		m.GroupTransitions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SubmissionRole labels a stored submission.
func SubmissionRole(isLeader, isCrewLeader bool, crewID *string) string {
	switch {
	case isLeader:
		return "leader"
	case isCrewLeader:
		return "crew-leader"
	case crewID != nil:
		return "crew-member"
	default:
		return "member"
	}
}
