package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger_Creation(t *testing.T) {
	tl := NewTestLogger()
	assert.NotNil(t, tl.Logger)
	assert.NotNil(t, tl.observed)
	assert.True(t, tl.Enabled(TraceLevel))
}

func TestTestLogger_AssertLogged(t *testing.T) {
	tl := NewTestLogger()

	tl.Info(context.Background(), "test message", zap.String("key", "value"))

	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "test message")
	tl.AssertField(t, "test message", "key", "value")
}

func TestTestLogger_AssertOnly(t *testing.T) {
	tl := NewTestLogger()

	tl.Debug(context.Background(), "foo successfully called")

	tl.AssertOnly(t, zapcore.DebugLevel, "foo successfully called")
	assert.Equal(t, 1, tl.Len())
}

func TestTestLogger_AssertNoValue(t *testing.T) {
	tl := NewTestLogger()

	tl.Info(context.Background(), "safe", zap.String("username", "alice"))

	tl.AssertNoValue(t, "my_secret_key")
}

func TestTestLogger_Reset(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "one")
	tl.Info(context.Background(), "two")
	assert.Equal(t, 2, tl.Len())

	tl.Reset()

	assert.Equal(t, 0, tl.Len())
	assert.Empty(t, tl.All())
}

func TestTestLogger_FilterMessage(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "one")
	tl.Info(context.Background(), "two")

	assert.Equal(t, 1, tl.FilterMessage("two").Len())
}
