// Package metrics holds the Prometheus collectors of the date-checker. Every method is
// safe on a nil *Metrics so components can run with metrics disabled.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	FetchSuccess  = "success"
	FetchError    = "error"
	FetchCacheHit = "cache_hit"

	DeriveRecomputed = "recomputed"
	DeriveSkipped    = "skipped"
)

type Metrics struct {
	availabilityFetches *prometheus.CounterVec
	derivations         *prometheus.CounterVec
	flowTransitions     *prometheus.CounterVec
	droppedEvents       prometheus.Counter
	submissions         *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		availabilityFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_fetches_total",
			Help:      "Availability snapshot fetches by result.",
		}, []string{"result"}),
		derivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_derivations_total",
			Help:      "Derived availability views recomputed or skipped on an unchanged snapshot.",
		}, []string{"outcome"}),
		flowTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_flow_transitions_total",
			Help:      "Booking flow actions dispatched.",
		}, []string{"action", "ignored"}),
		droppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_flow_dropped_events_total",
			Help:      "Interaction events dropped because a subscriber was too slow.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_submissions_total",
			Help:      "Booking submissions by outcome and error kind.",
		}, []string{"outcome", "kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.availabilityFetches,
		m.derivations,
		m.flowTransitions,
		m.droppedEvents,
		m.submissions,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) ObserveFetch(result string) {
	if m == nil {
		return
	}
	m.availabilityFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveDerivation(outcome string) {
	if m == nil {
		return
	}
	m.derivations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveTransition(action string, ignored bool) {
	if m == nil {
		return
	}
	m.flowTransitions.WithLabelValues(action, strconv.FormatBool(ignored)).Inc()
}

func (m *Metrics) ObserveDroppedEvent() {
	if m == nil {
		return
	}
	m.droppedEvents.Inc()
}

func (m *Metrics) ObserveSubmission(outcome, kind string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome, kind).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
