package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Writer = &bytes.Buffer{}

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.NotNil(t, logger.zap)
	assert.Equal(t, cfg, logger.config)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	logger, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Nil(t, logger)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewLogger_WritesJSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Level = zapcore.DebugLevel
	cfg.Output.Writer = &buf

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	logger.Debug(context.Background(), "foo successfully called {'args': {}, 'return_value': None}")
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "foo successfully called {'args': {}, 'return_value': None}", entry["msg"])
	assert.Equal(t, "calllog", entry["service"])
	assert.Contains(t, entry, "ts")
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Format = "console"
	cfg.Output.Writer = &buf

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	logger.Error(context.Background(), "foo encountered an error")
	line := buf.String()
	assert.Contains(t, line, "ERROR")
	assert.Contains(t, line, "foo encountered an error")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(line), "{"))
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	logger := &Logger{
		zap:    zap.New(core),
		config: NewDefaultConfig(),
	}

	ctx := context.Background()

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
		message string
	}{
		{
			name:    "trace",
			logFunc: func() { logger.Trace(ctx, "trace message", zap.String("key", "val")) },
			level:   TraceLevel,
			message: "trace message",
		},
		{
			name:    "debug",
			logFunc: func() { logger.Debug(ctx, "debug message", zap.String("key", "val")) },
			level:   zapcore.DebugLevel,
			message: "debug message",
		},
		{
			name:    "info",
			logFunc: func() { logger.Info(ctx, "info message", zap.String("key", "val")) },
			level:   zapcore.InfoLevel,
			message: "info message",
		},
		{
			name:    "warn",
			logFunc: func() { logger.Warn(ctx, "warn message", zap.String("key", "val")) },
			level:   zapcore.WarnLevel,
			message: "warn message",
		},
		{
			name:    "error",
			logFunc: func() { logger.Error(ctx, "error message", zap.String("key", "val")) },
			level:   zapcore.ErrorLevel,
			message: "error message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed.TakeAll()
			tt.logFunc()

			logs := observed.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, tt.message, logs[0].Message)
			assert.Len(t, logs[0].Context, 1)
		})
	}
}

func TestLogger_With(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := &Logger{
		zap:    zap.New(core),
		config: NewDefaultConfig(),
	}

	child := logger.With(zap.String("child_field", "value"))
	child.Info(context.Background(), "child log")

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "value", logs[0].ContextMap()["child_field"])
}

func TestLogger_Named(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := &Logger{
		zap:    zap.New(core),
		config: NewDefaultConfig(),
	}

	logger.Named("billing").Info(context.Background(), "named log")

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "billing", logs[0].LoggerName)
}

func TestLogger_Enabled(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}

	assert.False(t, logger.Enabled(TraceLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Enabled(zapcore.ErrorLevel))
}

func TestWrap(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	z := zap.New(core)

	logger := Wrap(z)
	assert.Same(t, z, logger.Underlying())

	logger.Debug(context.Background(), "wrapped")
	assert.Equal(t, 1, observed.Len())
}

func TestWrap_NilUsesGlobal(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	Wrap(nil).Info(context.Background(), "through global")

	require.Equal(t, 1, observed.Len())
	assert.Equal(t, "through global", observed.All()[0].Message)
}

func TestLogger_AutoInjectContextFields(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithSessionID(context.Background(), "sess_123")
	ctx = WithRequestID(ctx, "req_456")

	tl.Info(ctx, "test message", zap.String("key", "value"))

	tl.AssertField(t, "test message", "session.id", "sess_123")
	tl.AssertField(t, "test message", "request.id", "req_456")
	tl.AssertField(t, "test message", "key", "value")
}
