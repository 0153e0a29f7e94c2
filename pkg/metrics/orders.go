package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics tracks the outcome of order status transitions.
type OrderMetrics struct {
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inflight    prometheus.Gauge
}

// NewOrderMetrics registers order transition metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Applied order status transitions, labelled by source and target status.",
	}, []string{"from", "to"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_rejections_total",
		Help: "Rejected order status transitions, labelled by rejection reason.",
	}, []string{"reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_transition_duration_seconds",
		Help:    "Duration of order status transition handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"to"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "order_transitions_in_flight",
		Help: "Order status transitions currently being applied.",
	})
	reg.MustRegister(transitions, rejections, duration, inflight)
	return &OrderMetrics{
		transitions: transitions,
		rejections:  rejections,
		duration:    duration,
		inflight:    inflight,
	}
}

// IncTransition records an applied transition between two statuses.
func (o *OrderMetrics) IncTransition(from, to string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncRejection records a rejected transition for the given reason.
func (o *OrderMetrics) IncRejection(reason string) {
	if o == nil || o.rejections == nil {
		return
	}
	o.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveTransition records how long applying a transition took.
func (o *OrderMetrics) ObserveTransition(to string, duration time.Duration) {
	if o == nil || o.duration == nil {
		return
	}
	o.duration.WithLabelValues(normalizeLabel(to)).Observe(duration.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns a release func.
func (o *OrderMetrics) TrackInFlight() func() {
	if o == nil || o.inflight == nil {
		return func() {}
	}
	o.inflight.Inc()
	return func() { o.inflight.Dec() }
}
