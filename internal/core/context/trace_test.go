package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestGetTrace_Explicit(t *testing.T) {
	tc := NewTraceContext()
	ctx := WithTrace(context.Background(), tc)

	assert.Same(t, tc, GetTrace(ctx))
	assert.Equal(t, tc.TraceID, GetTraceID(ctx))
	assert.Equal(t, tc.RequestID, GetRequestID(ctx))
}

func TestGetTrace_FallsBackToSpan(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	got := GetTrace(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", got.TraceID)
	assert.Equal(t, "00f067aa0ba902b7", got.SpanID)
	assert.Empty(t, GetRequestID(ctx))
}

func TestGetTrace_Empty(t *testing.T) {
	assert.Nil(t, GetTrace(context.Background()))
	assert.NotEmpty(t, GetTraceID(context.Background()))
}
