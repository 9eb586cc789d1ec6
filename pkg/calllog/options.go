package calllog

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/calllog/internal/logging"
)

// Option configures a wrapper.
type Option func(*options)

type options struct {
	name     string
	typeName string
	params   []string
	ignore   []string
	redactor *Redactor
	logger   *logging.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	metrics  *Metrics
	scrubber ValueScrubber
}

// ValueScrubber rewrites a rendered log body to hide secrets found in
// values, whatever their argument name.
type ValueScrubber interface {
	Scrub(text string) string
}

// Ignore adds argument names to redact for this wrapper, on top of the
// redactor's secret keys.
func Ignore(names ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, names...)
	}
}

// Params declares the parameter names of the target, in order.
//
// For Func and Auto the list covers every parameter except context.Context
// and Kwargs parameters. For Method the receiver is left out.
func Params(names ...string) Option {
	return func(o *options) {
		o.params = append([]string(nil), names...)
	}
}

// Name overrides the function name used in the log prefix.
func Name(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// TypeName sets the receiver type name used in the log prefix. With Func it
// marks the target as a bound method value.
func TypeName(name string) Option {
	return func(o *options) {
		o.typeName = name
	}
}

// WithLogger sets the logger that receives call entries. Without it the
// logger is taken from the call's context argument, then from zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = logging.Wrap(l)
	}
}

// WithRedactor adds r's secret keys to DefaultSecretKeys and sets the
// sentinel.
func WithRedactor(r Redactor) Option {
	return func(o *options) {
		keys := append([]string(nil), r.SecretKeys...)
		o.redactor = &Redactor{SecretKeys: keys, Sentinel: r.Sentinel}
	}
}

// WithTracer records a span per call.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithMeter records OpenTelemetry call counts and durations.
func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

// WithMetrics records Prometheus call counts and durations.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// ScrubValues passes every rendered entry body through s after name-based
// redaction. secrets.Scanner satisfies ValueScrubber.
func ScrubValues(s ValueScrubber) Option {
	return func(o *options) {
		o.scrubber = s
	}
}
