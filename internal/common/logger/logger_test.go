package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"requestId": "abc"}).
		WithError(errors.New("boom")).
		Warn("upstream failed", map[string]interface{}{"provider": "serp", "cause": errors.New("dial")})

	entries := logs.All()
	assert.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "upstream failed", entries[0].Message)
	assert.Equal(t, "abc", ctx["requestId"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "serp", ctx["provider"])
	assert.Equal(t, "dial", ctx["cause"])
}

func TestContextLogger(t *testing.T) {
	fallback := NewNoOpLogger()
	assert.Equal(t, fallback, FromContext(context.Background(), fallback))

	scoped := NewTestLogger(t).With(map[string]interface{}{"requestId": "r-1"})
	ctx := IntoContext(context.Background(), scoped)
	assert.Equal(t, scoped, FromContext(ctx, fallback))
}

func TestNew_LevelParsing(t *testing.T) {
	assert.True(t, New("debug", "json").Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New("warn", "console").Core().Enabled(zapcore.InfoLevel))
	assert.True(t, New("", "json").Core().Enabled(zapcore.InfoLevel))
}
