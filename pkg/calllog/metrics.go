package calllog

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Call outcomes, used as metric labels.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Metrics holds Prometheus collectors for wrapped calls.
type Metrics struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the call collectors and registers them with reg.
// A nil reg creates unregistered collectors.
//
// Metrics:
//   - calllog_calls_total{function,outcome} - Count of wrapped calls
//   - calllog_call_duration_seconds{function} - Histogram of call durations
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calllog_calls_total",
				Help: "Total number of wrapped calls",
			},
			[]string{"function", "outcome"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calllog_call_duration_seconds",
				Help:    "Duration of wrapped calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"function"},
		),
	}
}

func (m *Metrics) observe(function, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(function, outcome).Inc()
	m.Duration.WithLabelValues(function).Observe(d.Seconds())
}

// instruments are the OpenTelemetry counterparts of Metrics.
type instruments struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// newInstruments returns nil when the meter is nil or an instrument cannot be
// created; calls are still logged without it.
func newInstruments(m metric.Meter) *instruments {
	if m == nil {
		return nil
	}
	calls, err := m.Int64Counter("calllog.calls",
		metric.WithDescription("Number of wrapped calls"))
	if err != nil {
		return nil
	}
	duration, err := m.Float64Histogram("calllog.duration",
		metric.WithDescription("Duration of wrapped calls"),
		metric.WithUnit("s"))
	if err != nil {
		return nil
	}
	return &instruments{calls: calls, duration: duration}
}

func (i *instruments) record(ctx context.Context, function, outcome string, d time.Duration) {
	if i == nil {
		return
	}
	fn := attribute.String("function", function)
	i.calls.Add(ctx, 1, metric.WithAttributes(fn, attribute.String("outcome", outcome)))
	i.duration.Record(ctx, d.Seconds(), metric.WithAttributes(fn))
}
