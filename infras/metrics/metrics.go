package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "homeserve"

// NewRegistry returns a registry with the runtime collectors attached.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// Handler serves the registry in the prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// BookingMetrics exposes counters/histograms for booking and availability flows.
type BookingMetrics struct {
	attempts        *prometheus.CounterVec
	assignLatency   prometheus.Histogram
	slotLookups     *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	outboxDelivered *prometheus.CounterVec
	outboxBacklog   prometheus.Gauge
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Booking attempts by outcome (created or rejection kind)",
		}, []string{"outcome", "assignment"}),
		assignLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "create_duration_seconds",
			Help:      "Latency of booking creation including the locked transaction",
			Buckets:   prometheus.DefBuckets,
		}),
		slotLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "lookups_total",
			Help:      "Open slot lookups by cache result",
		}, []string{"cache"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "status_changes_total",
			Help:      "Booking status transitions",
		}, []string{"from", "to"}),
		outboxDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "deliveries_total",
			Help:      "Outbox event deliveries by sink and status",
		}, []string{"sink", "status"}),
		outboxBacklog: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "pending_events",
			Help:      "Undelivered events seen by the last relay tick",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.attempts, m.assignLatency, m.slotLookups, m.statusChanges, m.outboxDelivered, m.outboxBacklog)

	return m
}

func (m *BookingMetrics) ObserveAttempt(outcome string, autoAssigned bool) {
	if m == nil {
		return
	}
	label := "explicit"
	if autoAssigned {
		label = "auto"
	}
	m.attempts.WithLabelValues(outcome, label).Inc()
}

func (m *BookingMetrics) ObserveCreateLatency(seconds float64) {
	if m == nil {
		return
	}
	m.assignLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveSlotLookup(cacheHit bool) {
	if m == nil {
		return
	}
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.slotLookups.WithLabelValues(label).Inc()
}

func (m *BookingMetrics) ObserveStatusChange(from, to string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveDelivery(sink, status string) {
	if m == nil {
		return
	}
	m.outboxDelivered.WithLabelValues(sink, status).Inc()
}

func (m *BookingMetrics) SetOutboxBacklog(n int) {
	if m == nil {
		return
	}
	m.outboxBacklog.Set(float64(n))
}
