package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "hobbyshop/internal/core/context"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestFromContext_AddsTraceFields(t *testing.T) {
	l, logs := observed()
	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = WithLogger(ctx, l)

	Info(ctx, "item created", "item_id", int64(3))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "t-1", fields["trace_id"])
		assert.Equal(t, "r-1", fields["request_id"])
		assert.Equal(t, int64(3), fields["item_id"])
	}
}

func TestWithComponent(t *testing.T) {
	l, logs := observed()
	l.WithComponent("outbox").Warnw("retrying")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "outbox", entries[0].ContextMap()["component"])
	}
}

func TestNew_FallsBackToInfoOnBadLevel(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	assert.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
}

func TestConfigOptions_ServiceField(t *testing.T) {
	tests := []struct {
		name    string
		service string
		want    any
	}{
		{name: "set", service: "hobbyshop-worker", want: "hobbyshop-worker"},
		{name: "unset", service: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			l := &Logger{zap.New(core, Config{Service: tt.service}.options()...).Sugar()}
			l.Infow("started")

			entries := logs.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.want, entries[0].ContextMap()["service"])
			}
		})
	}
}

func TestFromContext_FallsBackWithoutLogger(t *testing.T) {
	assert.Same(t, Default(), FromContext(context.Background()))
}

func TestNewNop_DiscardsEverything(t *testing.T) {
	l := NewNop()
	assert.False(t, l.Desugar().Core().Enabled(zap.ErrorLevel))
}
