package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fyrsmithlabs/calllog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSecret_Field(t *testing.T) {
	tl := NewTestLogger()

	tl.Info(context.Background(), "test secret", Secret("creds", config.Secret("super-secret-value")))

	logs := tl.All()
	require.Len(t, logs, 1)
	creds, ok := logs[0].ContextMap()["creds"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "[REDACTED:18]", creds["creds"])
	tl.AssertNoValue(t, "super-secret-value")
}

func TestRedactedString(t *testing.T) {
	tl := NewTestLogger()

	tl.Info(context.Background(), "test", RedactedString("api_key", "sk-1234567890abcdef"))

	tl.AssertField(t, "test", "api_key", "[REDACTED:19]")
}

func TestNewRedactingEncoder(t *testing.T) {
	cfg := NewDefaultConfig()
	encoder, err := NewRedactingEncoder(newEncoder("json"), cfg.Redaction)

	require.NoError(t, err)
	assert.Len(t, encoder.redactFields, len(cfg.Redaction.Fields))
	assert.Len(t, encoder.redactRegex, len(cfg.Redaction.Patterns))
}

func TestNewRedactingEncoder_InvalidPattern(t *testing.T) {
	cfg := RedactionConfig{
		Enabled:  true,
		Patterns: []string{`(?i)bearer\s+\S+`, "[invalid("},
	}

	encoder, err := NewRedactingEncoder(newEncoder("json"), cfg)

	assert.Nil(t, encoder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redaction pattern")
	assert.Contains(t, err.Error(), "[invalid(")
}

func TestNewRedactingEncoder_PatternTooLong(t *testing.T) {
	long := string(bytes.Repeat([]byte("a"), maxPatternLen+1))

	encoder, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{
		Enabled:  true,
		Patterns: []string{long},
	})

	assert.Nil(t, encoder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern too long")
}

func TestNewRedactingEncoder_DisabledSkipsValidation(t *testing.T) {
	encoder, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{
		Enabled:  false,
		Patterns: []string{"[invalid("},
	})

	assert.NoError(t, err)
	assert.NotNil(t, encoder)
}

// encodeOne writes one entry through a logger built on the default config
// and returns the decoded JSON object.
func encodeOne(t *testing.T, build func(*zap.Logger)) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Output.Writer = &buf

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	build(logger.Underlying())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestRedactingEncoder_EntryFields(t *testing.T) {
	entry := encodeOne(t, func(z *zap.Logger) {
		z.Info("login",
			zap.String("user", "alice"),
			zap.String("api_key", "sk-live-123"),
			zap.String("Authorization", "Bearer abc.def"),
			zap.Binary("private_key", []byte("raw")),
			zap.Strings("token", []string{"a", "b"}),
		)
	})

	assert.Equal(t, "alice", entry["user"])
	assert.Equal(t, "[REDACTED]", entry["api_key"])
	assert.Equal(t, "[REDACTED]", entry["Authorization"])
	assert.Equal(t, "[REDACTED]", entry["token"])
	assert.NotEqual(t, "cmF3", entry["private_key"])
}

func TestRedactingEncoder_ValuePatterns(t *testing.T) {
	entry := encodeOne(t, func(z *zap.Logger) {
		z.Info("request", zap.String("header", "Bearer eyJhbGciOi"))
	})

	assert.Equal(t, "[REDACTED:pattern]", entry["header"])
}

func TestRedactingEncoder_WithFields(t *testing.T) {
	entry := encodeOne(t, func(z *zap.Logger) {
		z.With(zap.String("email", "a@example.com")).Info("child")
	})

	assert.Equal(t, "[REDACTED]", entry["email"])
}

func TestRedactingEncoder_ReflectedAndObject(t *testing.T) {
	entry := encodeOne(t, func(z *zap.Logger) {
		z.Info("nested",
			zap.Any("credential", map[string]string{"user": "bob"}),
			zap.Object("secret", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
				enc.AddString("inner", "value")
				return nil
			})),
		)
	})

	assert.Equal(t, "[REDACTED]", entry["credential"])
	assert.Equal(t, "[REDACTED]", entry["secret"])
}

func TestRedactingEncoder_Clone(t *testing.T) {
	encoder, err := NewRedactingEncoder(newEncoder("json"), NewDefaultConfig().Redaction)
	require.NoError(t, err)

	clone, ok := encoder.Clone().(*RedactingEncoder)
	require.True(t, ok)
	assert.Equal(t, encoder.redactFields, clone.redactFields)
	assert.Equal(t, encoder.redactRegex, clone.redactRegex)
}
