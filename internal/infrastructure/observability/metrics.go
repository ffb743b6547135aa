// Package observability holds the prometheus collectors and the tracer setup.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the payment collectors on their own registry so tests stay hermetic.
type Metrics struct {
	Registry *prometheus.Registry

	IntentsTotal     *prometheus.CounterVec
	CallbacksTotal   *prometheus.CounterVec
	GatewayDuration  *prometheus.HistogramVec
	TransitionsTotal *prometheus.CounterVec
	CircuitOpenTotal *prometheus.CounterVec
	ReconcileCount   prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		IntentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_intents_total",
			Help: "Payment intents by gateway and outcome.",
		}, []string{"gateway", "outcome"}),
		CallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_callbacks_total",
			Help: "Gateway callbacks by gateway and outcome.",
		}, []string{"gateway", "outcome"}),
		GatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payments_gateway_request_duration_seconds",
			Help:    "Latency of gateway operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"gateway", "operation"}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_invoice_transitions_total",
			Help: "Applied invoice terminal transitions by target status.",
		}, []string{"to"}),
		CircuitOpenTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_circuit_open_total",
			Help: "Times a gateway circuit breaker opened.",
		}, []string{"gateway"}),
		ReconcileCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payments_reconcile_applied_total",
			Help: "Terminal results applied by the reconciliation sweep.",
		}),
	}
	reg.MustRegister(
		m.IntentsTotal,
		m.CallbacksTotal,
		m.GatewayDuration,
		m.TransitionsTotal,
		m.CircuitOpenTotal,
		m.ReconcileCount,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveGateway(gateway, operation string, started time.Time) {
	if m == nil {
		return
	}
	m.GatewayDuration.WithLabelValues(gateway, operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) Intent(gateway, outcome string) {
	if m == nil {
		return
	}
	m.IntentsTotal.WithLabelValues(gateway, outcome).Inc()
}

func (m *Metrics) Callback(gateway, outcome string) {
	if m == nil {
		return
	}
	m.CallbacksTotal.WithLabelValues(gateway, outcome).Inc()
}

func (m *Metrics) Transition(to string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(to).Inc()
}

func (m *Metrics) CircuitOpened(gateway string) {
	if m == nil {
		return
	}
	m.CircuitOpenTotal.WithLabelValues(gateway).Inc()
}

func (m *Metrics) ReconcileApplied() {
	if m == nil {
		return
	}
	m.ReconcileCount.Inc()
}
