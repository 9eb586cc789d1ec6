// internal/logging/context.go
package logging

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextFields returns the trace, session and request fields carried by
// ctx. A nil ctx carries none.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
		if sc.IsSampled() {
			fields = append(fields, zap.Bool("trace_sampled", true))
		}
	}

	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		fields = append(fields, zap.String("session.id", sessionID))
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request.id", requestID))
	}

	return fields
}

type idKey int

const (
	sessionIDKey idKey = iota
	requestIDKey
)

const maxIDLen = 128

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateID rejects IDs that would be unsafe to echo into log entries.
func validateID(id, name string) error {
	switch {
	case id == "":
		return fmt.Errorf("%s cannot be empty", name)
	case !utf8.ValidString(id):
		return fmt.Errorf("%s contains invalid UTF-8", name)
	case len(id) > maxIDLen:
		return fmt.Errorf("%s exceeds max length %d", name, maxIDLen)
	case !idPattern.MatchString(id):
		return fmt.Errorf("%s contains invalid characters (must be alphanumeric, hyphen, underscore)", name)
	}
	return nil
}

func withID(ctx context.Context, key idKey, id, name string) context.Context {
	if err := validateID(id, name); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, key, id)
}

func idFrom(ctx context.Context, key idKey) string {
	id, _ := ctx.Value(key).(string)
	return id
}

// SessionIDFromContext returns the session ID set by WithSessionID.
func SessionIDFromContext(ctx context.Context) string { return idFrom(ctx, sessionIDKey) }

// WithSessionID tags every entry logged with ctx with session.id.
// It panics on an empty or malformed ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return withID(ctx, sessionIDKey, sessionID, "sessionID")
}

// RequestIDFromContext returns the request ID set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string { return idFrom(ctx, requestIDKey) }

// WithRequestID tags every entry logged with ctx with request.id, which
// lets the entries of wrapped calls made for one request be grouped.
// It panics on an empty or malformed ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withID(ctx, requestIDKey, requestID, "requestID")
}

type loggerCtxKey struct{}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Falls back to Default() if none is stored.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}
