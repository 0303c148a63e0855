// Package metrics holds the Prometheus collectors for the gateway.
//
// Information Hiding:
// - Metric names, label sets and histogram buckets
// - Which registry the collectors live in
//
// A nil *Metrics is valid and records nothing, so components can be
// built without a registry in tests and one-shot CLI calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tubegate"

// Metrics groups every collector the gateway records to.
type Metrics struct {
	dispatches        *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	upstreamCalls     *prometheus.CounterVec
	completionResults *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		dispatches: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatches_total",
				Help:      "Total number of tool dispatches by tool and outcome code",
			},
			[]string{"tool", "code"},
		),
		dispatchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Tool dispatch latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		upstreamCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_calls_total",
				Help:      "Total number of video platform API calls by operation and result",
			},
			[]string{"op", "result"},
		),
		completionResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completion_results_total",
				Help:      "Text completion attempts by feature and path taken (ai or fallback)",
			},
			[]string{"feature", "path"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveDispatch records one dispatch outcome. code is "ok" on success.
func (m *Metrics) ObserveDispatch(tool, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(tool, code).Inc()
	m.dispatchDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.upstreamCalls.WithLabelValues(op, result).Inc()
}

// CompletionUsed records that feature used the AI answer.
func (m *Metrics) CompletionUsed(feature string) {
	if m == nil {
		return
	}
	m.completionResults.WithLabelValues(feature, "ai").Inc()
}

// FallbackUsed records that feature fell back to its deterministic path.
func (m *Metrics) FallbackUsed(feature string) {
	if m == nil {
		return
	}
	m.completionResults.WithLabelValues(feature, "fallback").Inc()
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
